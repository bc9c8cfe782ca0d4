package export

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver
)

const (
	// DefaultBatchSize is the number of frames to buffer before flushing
	// to the database.
	DefaultBatchSize = 64
)

// Metadata describes a frame bundle.
type Metadata struct {
	Name       string
	FrameCount int
	FrameSize  int
	Cols       int
	Rows       int
	FPS        int
	Generator  string
}

// ToMap converts metadata to key-value pairs for storage.
func (m Metadata) ToMap() map[string]string {
	return map[string]string{
		"name":        m.Name,
		"frame_count": strconv.Itoa(m.FrameCount),
		"frame_size":  strconv.Itoa(m.FrameSize),
		"cols":        strconv.Itoa(m.Cols),
		"rows":        strconv.Itoa(m.Rows),
		"fps":         strconv.Itoa(m.FPS),
		"generator":   m.Generator,
	}
}

// frameEntry is one buffered frame awaiting flush.
type frameEntry struct {
	data  []byte
	index int
}

// Bundle writes an animation's frames into a single SQLite file. Frame
// payloads are gzip-compressed PNG data keyed by frame index.
type Bundle struct {
	db        *sql.DB
	path      string
	batch     []frameEntry
	batchSize int
	mu        sync.Mutex
}

// NewBundle creates a frame bundle at path. The database is created if it
// doesn't exist and the schema is initialized.
func NewBundle(path string, metadata Metadata) (*Bundle, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if err := insertMetadata(db, metadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to insert metadata: %w", err)
	}

	return &Bundle{
		db:        db,
		path:      path,
		batch:     make([]frameEntry, 0, DefaultBatchSize),
		batchSize: DefaultBatchSize,
	}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS metadata (
			name TEXT NOT NULL,
			value TEXT
		);

		CREATE TABLE IF NOT EXISTS frames (
			frame_index INTEGER NOT NULL,
			frame_data BLOB NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS frame_idx ON frames (frame_index);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

func insertMetadata(db *sql.DB, meta Metadata) error {
	if _, err := db.Exec("DELETE FROM metadata"); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}

	stmt, err := db.Prepare("INSERT INTO metadata (name, value) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare metadata insert: %w", err)
	}
	defer stmt.Close()

	for key, value := range meta.ToMap() {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("failed to insert metadata %q: %w", key, err)
		}
	}

	return nil
}

// WriteFrame adds a frame to the batch. When the batch is full, it is
// automatically flushed. The PNG data is gzip-compressed before storage.
func (b *Bundle) WriteFrame(index int, pngData []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.batch = append(b.batch, frameEntry{index: index, data: pngData})

	if len(b.batch) >= b.batchSize {
		return b.flushLocked()
	}

	return nil
}

// Flush writes any buffered frames to the database.
func (b *Bundle) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushLocked()
}

func (b *Bundle) flushLocked() error {
	if len(b.batch) == 0 {
		return nil
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO frames (frame_index, frame_data) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, frame := range b.batch {
		compressed, err := gzipCompress(frame.data)
		if err != nil {
			return fmt.Errorf("failed to compress frame %d: %w", frame.index, err)
		}

		if _, err := stmt.Exec(frame.index, compressed); err != nil {
			return fmt.Errorf("failed to insert frame %d: %w", frame.index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	b.batch = b.batch[:0]
	return nil
}

// Close flushes any remaining frames and closes the database.
func (b *Bundle) Close() error {
	if err := b.Flush(); err != nil {
		b.db.Close()
		return err
	}

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// WriteBundle writes a complete frame bundle to path atomically. The
// database is staged in the target directory and renamed into place only
// after every frame is stored and the file is closed, so a failure partway
// never leaves a partial bundle at the destination.
func WriteBundle(path string, metadata Metadata, frames [][]byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".bundle-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	bundle, err := NewBundle(tmpPath, metadata)
	if err != nil {
		os.Remove(tmpPath)
		return err
	}

	for i, data := range frames {
		if err := bundle.WriteFrame(i, data); err != nil {
			bundle.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to write frame %d: %w", i, err)
		}
	}

	if err := bundle.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// ReadFrame returns the decompressed PNG data for one frame of an existing
// bundle.
func ReadFrame(path string, index int) ([]byte, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var compressed []byte
	row := db.QueryRow("SELECT frame_data FROM frames WHERE frame_index = ?", index)
	if err := row.Scan(&compressed); err != nil {
		return nil, fmt.Errorf("failed to read frame %d: %w", index, err)
	}

	gr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress frame %d: %w", index, err)
	}
	defer gr.Close()

	return io.ReadAll(gr)
}

// ReadMetadata returns the stored metadata map of an existing bundle.
func ReadMetadata(path string) (map[string]string, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta[name] = value
	}
	return meta, rows.Err()
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)

	if _, err := gw.Write(data); err != nil {
		gw.Close()
		return nil, err
	}

	if err := gw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
