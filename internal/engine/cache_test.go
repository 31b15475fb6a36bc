package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dueldanov/europa/internal/ast"
	"github.com/dueldanov/europa/internal/lexer"
	"github.com/dueldanov/europa/internal/parser"
)

func parse(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	tokens, err := lexer.Tokenize(source)
	require.NoError(t, err)
	program, err := parser.Parse(tokens)
	require.NoError(t, err)
	return program
}

func TestKeyOf(t *testing.T) {
	assert.Equal(t, KeyOf("print(1);"), KeyOf("print(1);"))
	assert.NotEqual(t, KeyOf("print(1);"), KeyOf("print(2);"))
}

func TestProgramCache_GetPut(t *testing.T) {
	cache := NewProgramCache(4)
	program := parse(t, "var x = 1;")

	_, ok := cache.Get(KeyOf("var x = 1;"))
	assert.False(t, ok)

	cache.Put(KeyOf("var x = 1;"), program)
	got, ok := cache.Get(KeyOf("var x = 1;"))
	require.True(t, ok)
	assert.Equal(t, program, got)
	assert.Equal(t, 1, cache.Len())

	// re-inserting a key does not grow the cache
	cache.Put(KeyOf("var x = 1;"), program)
	assert.Equal(t, 1, cache.Len())
}

func TestProgramCache_EvictsOldest(t *testing.T) {
	cache := NewProgramCache(2)
	sources := []string{"1;", "2;", "3;"}
	for _, src := range sources {
		cache.Put(KeyOf(src), parse(t, src))
	}

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get(KeyOf("1;"))
	assert.False(t, ok)
	_, ok = cache.Get(KeyOf("2;"))
	assert.True(t, ok)
	_, ok = cache.Get(KeyOf("3;"))
	assert.True(t, ok)
}

func TestProgramCache_MinimumCapacity(t *testing.T) {
	cache := NewProgramCache(0)
	cache.Put(KeyOf("1;"), parse(t, "1;"))
	cache.Put(KeyOf("2;"), parse(t, "2;"))

	assert.Equal(t, 1, cache.Len())
}
