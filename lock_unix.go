//go:build unix

package fwdeforge

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// flockExclusive acquires a non-blocking exclusive lock on f.
// Returns ErrLocked if the lock is already held.
func flockExclusive(f *os.File) error {
	err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err != nil {
		if err == syscall.EWOULDBLOCK {
			return fmt.Errorf("fwdeforge: %w", ErrLocked)
		}
		return fmt.Errorf("fwdeforge: flock exclusive: %w", err)
	}
	return nil
}

// funlock releases the flock on f.
func funlock(f *os.File) error {
	err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	if err != nil {
		return fmt.Errorf("fwdeforge: funlock: %w", err)
	}
	return nil
}

// lockArtifact takes the exclusive sidecar lock <path>.lock. The returned
// func releases the lock and closes the sidecar; the sidecar file itself
// is left on disk.
func lockArtifact(path string) (func() error, error) {
	lockPath := path + ".lock"
	f, err := openFileFunc(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, ioError("lock", lockPath, err)
	}
	if err := flockExclusive(f); err != nil {
		closeErr := f.Close()
		kind := KindIOFailure
		if errors.Is(err, ErrLocked) {
			kind = KindLocked
		}
		return nil, newError("lock", lockPath, kind, errors.Join(err, closeErr))
	}
	return func() error {
		unlockErr := funlock(f)
		closeErr := f.Close()
		return errors.Join(unlockErr, closeErr)
	}, nil
}
