package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultChunkSize is the number of encoded examples per batch file.
const DefaultChunkSize = 10000

// BatchWriter accumulates encoded examples and flushes them as
// sequentially numbered JSON batch files under one split directory.
type BatchWriter struct {
	dir       string
	chunkSize int
	buf       []EncodedExample
	next      int
	written   int
}

func NewBatchWriter(dir string, chunkSize int) (*BatchWriter, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating batch directory: %w", err)
	}
	return &BatchWriter{dir: dir, chunkSize: chunkSize}, nil
}

func (w *BatchWriter) Append(ex EncodedExample) error {
	w.buf = append(w.buf, ex)
	w.written++
	if len(w.buf) >= w.chunkSize {
		return w.flush()
	}
	return nil
}

// Written reports the total number of examples appended so far.
func (w *BatchWriter) Written() int { return w.written }

// Close flushes the final partial batch, if any.
func (w *BatchWriter) Close() error {
	if len(w.buf) == 0 {
		return nil
	}
	return w.flush()
}

func (w *BatchWriter) flush() error {
	path := filepath.Join(w.dir, fmt.Sprintf("%d.json", w.next))
	data, err := json.Marshal(w.buf)
	if err != nil {
		return fmt.Errorf("encoding batch %d: %w", w.next, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing batch %d: %w", w.next, err)
	}
	w.next++
	w.buf = w.buf[:0]
	return nil
}
