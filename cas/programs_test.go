package cas

import (
	"errors"
	"sync"
	"testing"

	"github.com/nandy2uy/Nova-language/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceKey(t *testing.T) {
	src := []byte("print 1")
	require.Equal(t, SourceKey(".nova", src), SourceKey(".nova", src))
	require.NotEqual(t, SourceKey(".nova", src), SourceKey(".star", src))
	require.NotEqual(t, SourceKey(".nova", src), SourceKey(".nova", []byte("print 2")))
}

func TestProgramCache(t *testing.T) {
	c := NewProgramCache(NewLRUCache(NewMemoryCAS(), 8))
	key := SourceKey(".nova", []byte("source"))
	compiles := 0
	compile := func() (*vm.Program, error) {
		compiles++
		return sampleProgram(), nil
	}

	p1, err := c.GetOrCompile(key, compile)
	require.NoError(t, err)
	p2, err := c.GetOrCompile(key, compile)
	require.NoError(t, err)
	require.Equal(t, 1, compiles)
	require.True(t, p1.HasPrefix(p2))
	require.True(t, p2.HasPrefix(p1))
	require.Equal(t, ProgramStats{Sources: 1, Hits: 1, Misses: 1}, c.Stats())

	_, ok, err := c.Get(SourceKey(".nova", []byte("other")))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProgramCache_CompileErrorNotCached(t *testing.T) {
	c := NewProgramCache(NewMemoryCAS())
	key := SourceKey(".nova", []byte("bad"))
	boom := errors.New("boom")
	_, err := c.GetOrCompile(key, func() (*vm.Program, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	_, ok, err := c.Get(key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProgramCache_Concurrent(t *testing.T) {
	c := NewProgramCache(NewLRUCache(NewMemoryCAS(), 4))
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := SourceKey(".nova", []byte{byte(i % 4)})
			p, err := c.GetOrCompile(key, func() (*vm.Program, error) { return sampleProgram(), nil })
			if assert.NoError(t, err) {
				assert.Equal(t, 6, p.Len())
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 4, c.Stats().Sources)
}
