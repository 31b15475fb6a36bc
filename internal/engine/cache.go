package engine

import (
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/dueldanov/europa/internal/ast"
)

// ProgramKey identifies a source text in the cache
type ProgramKey [blake2b.Size256]byte

// KeyOf hashes source into its cache key
func KeyOf(source string) ProgramKey {
	return blake2b.Sum256([]byte(source))
}

// ProgramCache holds parsed programs keyed by the hash of their source.
// When full, the oldest inserted entry is evicted. Parsed statements are
// never mutated after parsing, so cached programs are shared freely.
type ProgramCache struct {
	mu       sync.RWMutex
	programs map[ProgramKey][]ast.Stmt
	order    []ProgramKey
	capacity int
}

// NewProgramCache creates a cache bounded to capacity entries
func NewProgramCache(capacity int) *ProgramCache {
	if capacity < 1 {
		capacity = 1
	}
	return &ProgramCache{
		programs: make(map[ProgramKey][]ast.Stmt, capacity),
		order:    make([]ProgramKey, 0, capacity),
		capacity: capacity,
	}
}

// Get returns the parsed program for key
func (c *ProgramCache) Get(key ProgramKey) ([]ast.Stmt, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	program, ok := c.programs[key]
	return program, ok
}

// Put stores program under key, evicting the oldest entry when full
func (c *ProgramCache) Put(key ProgramKey, program []ast.Stmt) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.programs[key]; ok {
		c.programs[key] = program
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.programs, oldest)
	}

	c.programs[key] = program
	c.order = append(c.order, key)
}

// Len returns the number of cached programs
func (c *ProgramCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.programs)
}
