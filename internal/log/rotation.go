package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// RotatingFile is an io.WriteCloser that rolls the file over to path.1,
// path.2, ... once a write would push it past maxSize bytes.
type RotatingFile struct {
	mu sync.Mutex

	path       string
	maxSize    int64
	maxBackups int

	file *os.File
	size int64
}

// NewRotatingFile opens (or creates) path for appending.
func NewRotatingFile(path string, maxSize int64, maxBackups int) (*RotatingFile, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("log: max size must be positive, got %d", maxSize)
	}
	rf := &RotatingFile{path: path, maxSize: maxSize, maxBackups: maxBackups}
	if err := rf.open(); err != nil {
		return nil, err
	}
	return rf, nil
}

func (rf *RotatingFile) open() error {
	if err := os.MkdirAll(filepath.Dir(rf.path), 0750); err != nil {
		return fmt.Errorf("log: create directory: %w", err)
	}

	// 0600: log lines carry record IDs and targets.
	f, err := os.OpenFile(rf.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("log: open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("log: stat file: %w", err)
	}

	rf.file = f
	rf.size = info.Size()
	return nil
}

// Write implements io.Writer.
func (rf *RotatingFile) Write(p []byte) (int, error) {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.file == nil {
		return 0, os.ErrClosed
	}
	if rf.size > 0 && rf.size+int64(len(p)) > rf.maxSize {
		if err := rf.rotate(); err != nil {
			return 0, fmt.Errorf("log: rotate: %w", err)
		}
	}

	n, err := rf.file.Write(p)
	rf.size += int64(n)
	return n, err
}

// rotate must be called with mu held.
func (rf *RotatingFile) rotate() error {
	if err := rf.file.Close(); err != nil {
		return err
	}
	rf.file = nil

	if rf.maxBackups <= 0 {
		if err := os.Remove(rf.path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return rf.open()
	}

	// path.N is dropped, path.N-1 becomes path.N, ..., path becomes path.1.
	for i := rf.maxBackups; i >= 1; i-- {
		from := rf.path
		if i > 1 {
			from = fmt.Sprintf("%s.%d", rf.path, i-1)
		}
		to := fmt.Sprintf("%s.%d", rf.path, i)
		if err := os.Rename(from, to); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return rf.open()
}

// Close implements io.Closer.
func (rf *RotatingFile) Close() error {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.file == nil {
		return nil
	}
	err := rf.file.Close()
	rf.file = nil
	return err
}
