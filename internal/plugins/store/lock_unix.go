//go:build !windows

package store

import (
	"fmt"
	"os"
	"syscall"
)

// fileLock serialises writers of one store file across processes (flock).
type fileLock struct {
	path string
}

type lockHandle struct {
	file *os.File
}

// newFileLock locks path + ".lock".
func newFileLock(path string) *fileLock {
	return &fileLock{path: path + ".lock"}
}

// Lock blocks until the exclusive lock is held.
func (l *fileLock) Lock() (*lockHandle, error) {
	f, err := os.OpenFile(l.path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	return &lockHandle{file: f}, nil
}

func (h *lockHandle) Unlock() error {
	if h == nil || h.file == nil {
		return nil
	}
	f := h.file
	h.file = nil
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return f.Close()
}
