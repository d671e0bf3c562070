package main

import (
	"errors"
	"io"
	"os"
	"sync"
)

const (
	maxLogBytes  = 6 << 20
	keepLogBytes = 5 << 20
)

// tailFile is an append-only log file that keeps only its newest keep bytes
// once it grows past limit.
type tailFile struct {
	mu    sync.Mutex
	f     *os.File
	limit int64
	keep  int64
}

func openTailFile(path string, limit, keep int64) (*tailFile, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	t := &tailFile{f: f, limit: limit, keep: keep}
	if err := t.trim(); err != nil {
		f.Close()
		return nil, err
	}
	return t, nil
}

func (t *tailFile) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, err := t.f.Write(p)
	if err != nil {
		return n, err
	}
	return n, t.trim()
}

func (t *tailFile) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.f.Close()
}

func (t *tailFile) trim() error {
	info, err := t.f.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= t.limit {
		return nil
	}

	tail := make([]byte, t.keep)
	n, err := t.f.ReadAt(tail, size-t.keep)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if err := t.f.Truncate(0); err != nil {
		return err
	}
	// O_APPEND writes land at the new end of file.
	_, err = t.f.Write(tail[:n])
	return err
}
