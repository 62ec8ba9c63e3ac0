package fs

import (
	"io/fs"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
)

// ChaosConfig controls fault injection probabilities.
// Each rate is a float64 from 0.0 (never) to 1.0 (always).
type ChaosConfig struct {
	ReadFailRate    float64 // Fail ReadFile entirely
	PartialReadRate float64 // Return truncated data from ReadFile
	WriteFailRate   float64 // Fail WriteFileAtomic before anything is written
	MkdirFailRate   float64 // Fail MkdirAll
	StatFailRate    float64 // Fail Exists
}

// PathState tracks the fault state of a path for consistent error injection.
type PathState int

const (
	// PathNormal means no persistent fault. This is the zero value, so
	// untracked paths are normal.
	PathNormal PathState = iota
	// PathIOError is sticky: every read and write of the path returns EIO.
	PathIOError
	// PathReadOnly is sticky for writes: they return EROFS, reads still work.
	PathReadOnly
)

// ChaosMode controls how Chaos behaves.
type ChaosMode uint8

const (
	// ChaosModePassthrough behaves like the underlying FS and ignores both
	// fault rates and sticky path state.
	ChaosModePassthrough ChaosMode = iota

	// ChaosModeInject enables fault-rate injection and sticky path state.
	ChaosModeInject

	// ChaosModeStickyOnly applies only sticky path state. Fault rates are disabled.
	ChaosModeStickyOnly
)

// Chaos wraps an [FS] and injects failures for testing.
//
// Injected errors are real OS errors (syscall.Errno wrapped in
// *fs.PathError), so code using errors.Is or os.IsNotExist behaves as it
// would against a failing disk. Writes fail before touching the wrapped FS,
// mirroring an atomic write that never reached its rename.
type Chaos struct {
	fs     FS
	rng    *rand.Rand
	config ChaosConfig
	mode   atomic.Uint32

	mu         sync.Mutex
	pathStates map[string]PathState

	readFails    atomic.Int64
	partialReads atomic.Int64
	writeFails   atomic.Int64
	otherFails   atomic.Int64
}

// NewChaos creates a new Chaos filesystem wrapping the given [FS].
// The seed controls random fault injection for reproducibility.
// A new Chaos starts in [ChaosModePassthrough].
func NewChaos(fs FS, seed int64, config ChaosConfig) *Chaos {
	return &Chaos{
		fs:         fs,
		rng:        rand.New(rand.NewSource(seed)),
		config:     config,
		pathStates: make(map[string]PathState),
	}
}

// SetMode updates Chaos behavior. Switching modes never clears sticky state.
func (c *Chaos) SetMode(m ChaosMode) { c.mode.Store(uint32(m)) }

// SetPathState makes path fail persistently until reset.
func (c *Chaos) SetPathState(path string, state PathState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if state == PathNormal {
		delete(c.pathStates, path)
	} else {
		c.pathStates[path] = state
	}
}

// ChaosStats contains counts of injected faults.
type ChaosStats struct {
	ReadFails    int64
	PartialReads int64
	WriteFails   int64
	OtherFails   int64
}

// Stats returns the current fault injection counts.
func (c *Chaos) Stats() ChaosStats {
	return ChaosStats{
		ReadFails:    c.readFails.Load(),
		PartialReads: c.partialReads.Load(),
		WriteFails:   c.writeFails.Load(),
		OtherFails:   c.otherFails.Load(),
	}
}

func (c *Chaos) getState(path string) PathState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pathStates[path]
}

// should returns true with the given probability when chaos is injecting.
func (c *Chaos) should(rate float64) bool {
	if ChaosMode(c.mode.Load()) != ChaosModeInject {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rng.Float64() < rate
}

func (c *Chaos) randIntn(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rng.Intn(n)
}

func (c *Chaos) sticky() bool {
	return ChaosMode(c.mode.Load()) != ChaosModePassthrough
}

// pathError creates an *fs.PathError with the given operation, path, and errno.
// This matches what the real OS returns, so errors.Is() works correctly.
func pathError(op, path string, errno syscall.Errno) error {
	pe := &fs.PathError{Op: op, Path: path, Err: errno}
	recordFault(pe)

	return pe
}

func (c *Chaos) ReadFile(path string) ([]byte, error) {
	if c.sticky() && c.getState(path) == PathIOError {
		c.readFails.Add(1)

		return nil, pathError("read", path, syscall.EIO)
	}

	if c.should(c.config.ReadFailRate) {
		c.readFails.Add(1)

		return nil, pathError("read", path, syscall.EIO)
	}

	data, err := c.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if c.should(c.config.PartialReadRate) && len(data) > 1 {
		c.partialReads.Add(1)

		return data[:c.randIntn(len(data)-1)+1], nil
	}

	return data, nil
}

func (c *Chaos) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if c.sticky() {
		switch c.getState(path) {
		case PathIOError:
			c.writeFails.Add(1)

			return pathError("write", path, syscall.EIO)
		case PathReadOnly:
			c.writeFails.Add(1)

			return pathError("write", path, syscall.EROFS)
		case PathNormal:
		}
	}

	if c.should(c.config.WriteFailRate) {
		c.writeFails.Add(1)

		return pathError("write", path, syscall.ENOSPC)
	}

	return c.fs.WriteFileAtomic(path, data, perm)
}

func (c *Chaos) MkdirAll(path string, perm os.FileMode) error {
	if c.sticky() && c.getState(path) != PathNormal {
		c.otherFails.Add(1)

		return pathError("mkdir", path, syscall.EROFS)
	}

	if c.should(c.config.MkdirFailRate) {
		c.otherFails.Add(1)

		return pathError("mkdir", path, syscall.EACCES)
	}

	return c.fs.MkdirAll(path, perm)
}

func (c *Chaos) Exists(path string) (bool, error) {
	if c.sticky() && c.getState(path) == PathIOError {
		c.otherFails.Add(1)

		return false, pathError("stat", path, syscall.EIO)
	}

	if c.should(c.config.StatFailRate) {
		c.otherFails.Add(1)

		return false, pathError("stat", path, syscall.EACCES)
	}

	return c.fs.Exists(path)
}

// Compile-time interface check.
var _ FS = (*Chaos)(nil)
