// Package fs provides the filesystem operations the tracker needs, behind an
// interface so tests can inject faults.
//
// The main types are:
//   - [FS]: interface for filesystem operations
//   - [Real]: production implementation using [os] and atomic writes
//   - [Chaos]: testing implementation that injects failures
package fs

import "os"

// FS defines the filesystem operations used to persist the database.
//
// All methods mirror their [os] package equivalents but can be intercepted
// for testing with fault injection.
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically.
	// Uses a temp file + rename so a crash mid-write leaves the previous
	// content in place.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// MkdirAll creates a directory and any missing parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Exists reports whether path exists.
	// Returns (false, nil) if it does not, (false, err) for other errors.
	Exists(path string) (bool, error)
}
