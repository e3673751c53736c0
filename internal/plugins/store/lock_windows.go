//go:build windows

package store

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// fileLock serialises writers of one store file across processes (LockFileEx).
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
	ol := &windows.Overlapped{}
	if err := windows.LockFileEx(windows.Handle(f.Fd()), windows.LOCKFILE_EXCLUSIVE_LOCK, 0, 1, 0, ol); err != nil {
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
	ol := &windows.Overlapped{}
	if err := windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, ol); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return f.Close()
}
