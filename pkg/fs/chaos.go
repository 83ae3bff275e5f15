package fs

import (
	"errors"
	iofs "io/fs"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
)

// ChaosConfig controls fault injection probabilities.
// Each rate is a float64 from 0.0 (never) to 1.0 (always).
type ChaosConfig struct {
	ReadFailRate     float64 // Fail ReadFile entirely
	WriteFailRate    float64 // Fail WriteFile/WriteFileAtomic before touching the file
	PartialWriteRate float64 // WriteFile writes a prefix then fails (simulates crash)
	StatFailRate     float64 // Fail Stat/Exists
}

// DefaultChaosConfig returns a config with reasonable fault rates for testing.
func DefaultChaosConfig() ChaosConfig {
	return ChaosConfig{
		ReadFailRate:     0.02,
		WriteFailRate:    0.02,
		PartialWriteRate: 0.03,
		StatFailRate:     0.01,
	}
}

// PathState tracks the fault state of a path for consistent error injection.
type PathState int

const (
	// PathNormal means no persistent fault - errors are transient.
	// This is the zero value, so untracked paths are normal.
	PathNormal PathState = iota
	// PathIOError is sticky - the path has a "bad sector" and always returns EIO.
	PathIOError
	// PathReadOnly is sticky for writes - filesystem is read-only, returns EROFS.
	PathReadOnly
)

// ChaosMode controls how Chaos behaves.
type ChaosMode uint8

const (
	// ChaosModePassthrough behaves like the underlying FS.
	// Sticky path state is not consulted in this mode.
	ChaosModePassthrough ChaosMode = iota

	// ChaosModeInject enables fault-rate injection and sticky path state.
	ChaosModeInject

	// ChaosModeStickyOnly applies only sticky path state. Fault rates are disabled.
	ChaosModeStickyOnly
)

// Chaos wraps an [FS] and injects failures for testing.
//
// All injected errors are real OS errors (syscall.Errno wrapped in
// *fs.PathError) so code using errors.Is keeps working. Use [IsInjected] to
// tell injected errors apart from real ones.
type Chaos struct {
	fs     FS
	rng    *rand.Rand
	config ChaosConfig
	mode   atomic.Uint32

	mu         sync.Mutex
	pathStates map[string]PathState

	readFails     atomic.Int64
	writeFails    atomic.Int64
	partialWrites atomic.Int64
	statFails     atomic.Int64
}

// NewChaos creates a new Chaos filesystem wrapping the given [FS].
// The seed controls random fault injection for reproducibility.
func NewChaos(fs FS, seed int64, config ChaosConfig) *Chaos {
	return &Chaos{
		fs:         fs,
		rng:        rand.New(rand.NewSource(seed)),
		config:     config,
		pathStates: make(map[string]PathState),
	}
}

// SetMode updates Chaos behavior. The zero value is [ChaosModePassthrough].
func (c *Chaos) SetMode(m ChaosMode) { c.mode.Store(uint32(m)) }

// SetPathState pins a sticky fault state on path.
func (c *Chaos) SetPathState(path string, state PathState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if state == PathNormal {
		delete(c.pathStates, path)

		return
	}

	c.pathStates[path] = state
}

// ChaosStats contains counts of injected faults.
type ChaosStats struct {
	ReadFails     int64
	WriteFails    int64
	PartialWrites int64
	StatFails     int64
}

// Stats returns the current fault injection counts.
func (c *Chaos) Stats() ChaosStats {
	return ChaosStats{
		ReadFails:     c.readFails.Load(),
		WriteFails:    c.writeFails.Load(),
		PartialWrites: c.partialWrites.Load(),
		StatFails:     c.statFails.Load(),
	}
}

// TotalFaults returns the total number of injected faults.
func (c *Chaos) TotalFaults() int64 {
	s := c.Stats()

	return s.ReadFails + s.WriteFails + s.PartialWrites + s.StatFails
}

func (c *Chaos) ReadFile(path string) ([]byte, error) {
	mode := ChaosMode(c.mode.Load())

	if mode != ChaosModePassthrough && c.state(path) == PathIOError {
		c.readFails.Add(1)

		return nil, pathError("read", path, syscall.EIO)
	}

	if c.should(mode, c.config.ReadFailRate) {
		c.readFails.Add(1)

		return nil, pathError("read", path, syscall.EIO)
	}

	return c.fs.ReadFile(path)
}

func (c *Chaos) WriteFile(path string, data []byte, perm os.FileMode) error {
	mode := ChaosMode(c.mode.Load())

	err := c.writeFault(mode, path)
	if err != nil {
		return err
	}

	if c.should(mode, c.config.PartialWriteRate) && len(data) > 1 {
		c.partialWrites.Add(1)

		cut := 1 + c.randIntn(len(data)-1)

		writeErr := c.fs.WriteFile(path, data[:cut], perm)

		return errors.Join(pathError("write", path, syscall.EIO), writeErr)
	}

	return c.fs.WriteFile(path, data, perm)
}

// WriteFileAtomic never produces partial files; it either fails up front or
// delegates to the wrapped FS.
func (c *Chaos) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	err := c.writeFault(ChaosMode(c.mode.Load()), path)
	if err != nil {
		return err
	}

	return c.fs.WriteFileAtomic(path, data, perm)
}

func (c *Chaos) Stat(path string) (os.FileInfo, error) {
	if c.should(ChaosMode(c.mode.Load()), c.config.StatFailRate) {
		c.statFails.Add(1)

		return nil, pathError("stat", path, syscall.EACCES)
	}

	return c.fs.Stat(path)
}

func (c *Chaos) Exists(path string) (bool, error) {
	if c.should(ChaosMode(c.mode.Load()), c.config.StatFailRate) {
		c.statFails.Add(1)

		return false, pathError("stat", path, syscall.EACCES)
	}

	return c.fs.Exists(path)
}

// writeFault returns the injected error for a write to path, or nil.
func (c *Chaos) writeFault(mode ChaosMode, path string) error {
	if mode != ChaosModePassthrough {
		switch c.state(path) {
		case PathIOError:
			c.writeFails.Add(1)

			return pathError("write", path, syscall.EIO)
		case PathReadOnly:
			c.writeFails.Add(1)

			return pathError("write", path, syscall.EROFS)
		}
	}

	if c.should(mode, c.config.WriteFailRate) {
		c.writeFails.Add(1)

		return pathError("write", path, syscall.ENOSPC)
	}

	return nil
}

// should returns true with the given probability when chaos is injecting.
func (c *Chaos) should(mode ChaosMode, rate float64) bool {
	if mode != ChaosModeInject {
		return false
	}

	return c.randFloat() < rate
}

func (c *Chaos) randFloat() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rng.Float64()
}

func (c *Chaos) randIntn(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rng.Intn(n)
}

func (c *Chaos) state(path string) PathState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pathStates[path]
}

// pathError creates an *fs.PathError with the given operation, path, and errno.
// This matches what the real OS returns, so errors.Is() works correctly.
func pathError(op, path string, errno syscall.Errno) error {
	pe := &iofs.PathError{Op: op, Path: path, Err: errno}
	markInjectedPathError(pe)

	return pe
}
