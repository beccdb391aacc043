// Package progress draws uiprogress bars around batch loops.
package progress

import (
	"io"

	"github.com/gosuri/uiprogress"
)

// Bar is a running progress bar. The zero value and a nil *Bar are no-ops,
// so callers never check whether progress is enabled.
type Bar struct {
	p   *uiprogress.Progress
	bar *uiprogress.Bar
}

// Start renders a bar of total steps on w. If w is nil no bar is drawn.
// The name function, if given, is appended to the bar with the index of the
// current step.
func Start(w io.Writer, total int, name func(i int) string) *Bar {
	if w == nil {
		return nil
	}

	p := uiprogress.New()
	p.SetOut(w)
	p.Start()

	bar := p.AddBar(total)
	bar.AppendCompleted()
	bar.PrependElapsed()

	if name != nil {
		bar.AppendFunc(func(b *uiprogress.Bar) string {
			i := b.Current() - 1
			if i < 0 {
				i = 0
			}
			if i >= total {
				return ""
			}
			return name(i)
		})
	}

	return &Bar{p: p, bar: bar}
}

// Incr advances the bar by one step.
func (b *Bar) Incr() {
	if b == nil {
		return
	}
	b.bar.Incr()
}

// Stop stops rendering. It is safe to call more than once.
func (b *Bar) Stop() {
	if b == nil || b.p == nil {
		return
	}
	b.p.Stop()
	b.p = nil
}
