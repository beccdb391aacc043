// Package resize converts a directory of images to fixed size RGB images.
package resize

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	exiflib "github.com/rwcarlsen/goexif/exif"
	"github.com/sourcegraph/conc/pool"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/revelaction/clevrprep/dataset"
	"github.com/revelaction/clevrprep/progress"
)

const (
	DefaultSize        = 128
	DefaultJPEGQuality = 75
)

type Resizer struct {
	// Size is the width and height of the output images.
	Size int

	// Workers bounds the number of files processed at once. Values below 2
	// process the directory sequentially.
	Workers int

	JPEGQuality int

	Log zerolog.Logger

	// Progress receives the progress bar. nil disables it.
	Progress io.Writer
}

func New() *Resizer {
	return &Resizer{
		Size:        DefaultSize,
		Workers:     1,
		JPEGQuality: DefaultJPEGQuality,
		Log:         zerolog.Nop(),
	}
}

// Process resizes every file of inDir into outDir under the same name.
// outDir is created if needed. Files already in outDir with the same name are
// overwritten, other files are left alone. The returned images follow the
// directory listing order.
func (r *Resizer) Process(ctx context.Context, inDir, outDir string) ([]dataset.Image, error) {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}

	r.Log.Info().Str("in", inDir).Str("out", outDir).Int("files", len(names)).Msg("resizing images")

	bar := progress.Start(r.Progress, len(names), func(i int) string { return names[i] })
	defer bar.Stop()

	images := make([]dataset.Image, len(names))

	if r.Workers < 2 {
		for i, name := range names {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			img, err := r.File(filepath.Join(inDir, name), filepath.Join(outDir, name))
			if err != nil {
				return nil, err
			}
			images[i] = img
			bar.Incr()
		}
	} else {
		p := pool.New().WithMaxGoroutines(r.Workers).WithContext(ctx).WithCancelOnError().WithFirstError()
		for i, name := range names {
			i, name := i, name
			p.Go(func(ctx context.Context) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				img, err := r.File(filepath.Join(inDir, name), filepath.Join(outDir, name))
				if err != nil {
					return err
				}
				images[i] = img
				bar.Incr()
				return nil
			})
		}
		if err := p.Wait(); err != nil {
			return nil, err
		}
	}

	r.Log.Info().Str("out", outDir).Int("images", len(images)).Msg("images resized")
	return images, nil
}

// File resizes the image at src and writes it to dst. The output format is
// chosen from the extension of dst.
func (r *Resizer) File(src, dst string) (dataset.Image, error) {
	f, err := os.Open(src)
	if err != nil {
		return dataset.Image{}, fmt.Errorf("IO error: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return dataset.Image{}, fmt.Errorf("image decoding error in %s: %w", src, err)
	}

	bounds := img.Bounds()
	info := dataset.Image{
		Name:        filepath.Base(src),
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Format:      format,
		Orientation: orientation(f),
	}

	out := imaging.Resize(RGB(img), r.Size, r.Size, imaging.Linear)

	if err := imaging.Save(out, dst, imaging.JPEGQuality(r.JPEGQuality)); err != nil {
		return dataset.Image{}, fmt.Errorf("image encoding error in %s: %w", dst, err)
	}

	return info, nil
}

// RGB returns a copy of img with the alpha channel discarded. Color values
// are kept as they are, not blended against a background.
func RGB(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// orientation returns the EXIF orientation of the already decoded file f,
// or "" when there is none.
func orientation(f io.ReadSeeker) string {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return ""
	}

	x, err := exiflib.Decode(f)
	if err != nil {
		return ""
	}

	tag, err := x.Get(exiflib.Orientation)
	if err != nil {
		return ""
	}
	return tag.String()
}
