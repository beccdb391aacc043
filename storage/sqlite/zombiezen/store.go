package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/clevrprep/dataset"
	"github.com/revelaction/clevrprep/dictionary"
	"github.com/revelaction/clevrprep/storage"
)

// DBName is the database file created under the dataset root.
const DBName = "clevr.db"

// Store keeps splits, dictionaries and image manifests in one SQLite
// database.
type Store struct {
	pool *sqlitex.Pool

	// RunID is stamped on every record and image row written by this store.
	RunID string
}

var _ storage.Store = (*Store)(nil)

// Path returns the database path of a dataset root.
func Path(root string) string {
	return filepath.Join(root, DBName)
}

// Open opens (creating if needed) the database at dbPath. A non empty runID
// is registered in the runs table.
func Open(dbPath, runID string) (*Store, error) {
	// zombiezen/sqlitex.NewPool with default options uses flags:
	// sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenWAL | sqlite.OpenURI
	pool, err := sqlitex.NewPool(fmt.Sprintf("file:%s", dbPath), sqlitex.PoolOptions{
		PoolSize: runtime.NumCPU(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create zombiezen pool at %s: %w", dbPath, err)
	}

	if err := CreateSchemas(pool, "schema.sql"); err != nil {
		pool.Close()
		return nil, err
	}

	s := &Store{pool: pool, RunID: runID}
	if runID == "" {
		return s, nil
	}

	if err := s.exec("INSERT INTO runs (id, started) VALUES (?, ?)", runID, time.Now().UTC().Format(time.RFC3339)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to register run %s: %w", runID, err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.pool.Close()
}

func (s *Store) exec(query string, args ...interface{}) error {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	return sqlitex.Execute(conn, query, &sqlitex.ExecOptions{Args: args})
}

// WriteSplit replaces the records of split.
func (s *Store) WriteSplit(split string, records dataset.Split) (err error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Execute(conn, "DELETE FROM records WHERE split = ?", &sqlitex.ExecOptions{
		Args: []interface{}{split},
	})
	if err != nil {
		return fmt.Errorf("failed to clear split %s: %w", split, err)
	}

	for i, r := range records {
		tokens := r.Tokens
		if tokens == nil {
			tokens = []int{}
		}
		data, marshalErr := json.Marshal(tokens)
		if marshalErr != nil {
			return marshalErr
		}

		err = sqlitex.Execute(conn, `INSERT INTO records (split, position, image_filename, tokens, answer_id, family_index, run_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`, &sqlitex.ExecOptions{
			Args: []interface{}{split, i, r.ImageFilename, string(data), r.Answer, r.FamilyIndex, s.RunID},
		})
		if err != nil {
			return fmt.Errorf("failed to insert record %d of split %s: %w", i, split, err)
		}
	}

	return nil
}

func (s *Store) ReadSplit(split string) (dataset.Split, error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	records := dataset.Split{}
	err = sqlitex.Execute(conn, "SELECT image_filename, tokens, answer_id, family_index FROM records WHERE split = ? ORDER BY position", &sqlitex.ExecOptions{
		Args: []interface{}{split},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			r := dataset.Record{
				ImageFilename: stmt.ColumnText(0),
				Answer:        stmt.ColumnInt(2),
				FamilyIndex:   stmt.ColumnInt(3),
			}
			if err := json.Unmarshal([]byte(stmt.ColumnText(1)), &r.Tokens); err != nil {
				return err
			}
			records = append(records, r)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// WriteDictionary replaces the stored word and answer dictionaries.
func (s *Store) WriteDictionary(d *dictionary.Dictionary) (err error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	if err = sqlitex.ExecuteScript(conn, "DELETE FROM words; DELETE FROM answers;", nil); err != nil {
		return fmt.Errorf("failed to clear dictionaries: %w", err)
	}

	for _, e := range sortedEntries(d.Words) {
		err = sqlitex.Execute(conn, "INSERT INTO words (word, id) VALUES (?, ?)", &sqlitex.ExecOptions{
			Args: []interface{}{e.Key, e.ID},
		})
		if err != nil {
			return fmt.Errorf("failed to insert word %q: %w", e.Key, err)
		}
	}

	for _, e := range sortedEntries(d.Answers) {
		err = sqlitex.Execute(conn, "INSERT INTO answers (answer, id) VALUES (?, ?)", &sqlitex.ExecOptions{
			Args: []interface{}{e.Key, e.ID},
		})
		if err != nil {
			return fmt.Errorf("failed to insert answer %q: %w", e.Key, err)
		}
	}

	return nil
}

// ReadDictionary returns the stored dictionaries. An empty database yields
// an empty dictionary.
func (s *Store) ReadDictionary() (*dictionary.Dictionary, error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	words := map[string]int{}
	err = sqlitex.Execute(conn, "SELECT word, id FROM words", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			words[stmt.ColumnText(0)] = stmt.ColumnInt(1)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	answers := map[string]int{}
	err = sqlitex.Execute(conn, "SELECT answer, id FROM answers", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			answers[stmt.ColumnText(0)] = stmt.ColumnInt(1)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return dictionary.FromMaps(words, answers)
}

// WriteManifest replaces the image rows of split.
func (s *Store) WriteManifest(split string, images []dataset.Image) (err error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Execute(conn, "DELETE FROM images WHERE split = ?", &sqlitex.ExecOptions{
		Args: []interface{}{split},
	})
	if err != nil {
		return fmt.Errorf("failed to clear images of split %s: %w", split, err)
	}

	for _, img := range images {
		err = sqlitex.Execute(conn, `INSERT INTO images (split, name, width, height, format, orientation, run_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`, &sqlitex.ExecOptions{
			Args: []interface{}{split, img.Name, img.Width, img.Height, img.Format, img.Orientation, s.RunID},
		})
		if err != nil {
			return fmt.Errorf("failed to insert image %s: %w", img.Name, err)
		}
	}

	return nil
}

// ReadManifest returns the image rows of split ordered by name.
func (s *Store) ReadManifest(split string) ([]dataset.Image, error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	var images []dataset.Image
	err = sqlitex.Execute(conn, "SELECT name, width, height, format, orientation FROM images WHERE split = ? ORDER BY name", &sqlitex.ExecOptions{
		Args: []interface{}{split},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			images = append(images, dataset.Image{
				Name:        stmt.ColumnText(0),
				Width:       stmt.ColumnInt(1),
				Height:      stmt.ColumnInt(2),
				Format:      stmt.ColumnText(3),
				Orientation: stmt.ColumnText(4),
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

func sortedEntries(m map[string]int) []dictionary.Entry {
	entries := make([]dictionary.Entry, 0, len(m))
	for k, id := range m {
		entries = append(entries, dictionary.Entry{Key: k, ID: id})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}
