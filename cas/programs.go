package cas

import (
	"sync"

	"github.com/dgryski/go-farm"
	"github.com/nandy2uy/Nova-language/vm"
	"github.com/rs/zerolog/log"
)

// SourceKey identifies a source text together with the frontend that reads
// it (a file extension such as ".nova" or ".star").
func SourceKey(frontend string, src []byte) Hash {
	buf := make([]byte, 0, len(frontend)+1+len(src))
	buf = append(buf, frontend...)
	buf = append(buf, 0)
	buf = append(buf, src...)
	return Hash(farm.Fingerprint64(buf))
}

// ProgramCache maps source keys to compiled programs held in a CAS. Programs
// that compile to the same code share one entry. It is safe for concurrent
// use; two goroutines missing on the same key may both compile it.
type ProgramCache struct {
	store CAS

	mu     sync.Mutex
	index  map[Hash]Hash
	hits   int
	misses int
}

func NewProgramCache(store CAS) *ProgramCache {
	return &ProgramCache{
		store: store,
		index: make(map[Hash]Hash),
	}
}

// Get returns the program stored for key, if any.
func (c *ProgramCache) Get(key Hash) (*vm.Program, bool, error) {
	c.mu.Lock()
	h, ok := c.index[key]
	c.mu.Unlock()
	if !ok {
		return nil, false, nil
	}
	p, err := Retrieve[vm.Program](c.store, h)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// Put stores p under key and returns the hash of its encoding.
func (c *ProgramCache) Put(key Hash, p *vm.Program) (Hash, error) {
	h, err := c.store.Put(p)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	c.index[key] = h
	c.mu.Unlock()
	return h, nil
}

// GetOrCompile returns the cached program for key, calling compile and
// caching its result on a miss. Compile errors are not cached.
func (c *ProgramCache) GetOrCompile(key Hash, compile func() (*vm.Program, error)) (*vm.Program, error) {
	p, ok, err := c.Get(key)
	if err != nil {
		return nil, err
	}
	if ok {
		c.count(true)
		log.Debug().Stringer("source", key).Msg("program cache hit")
		return p, nil
	}
	c.count(false)
	p, err = compile()
	if err != nil {
		return nil, err
	}
	h, err := c.Put(key, p)
	if err != nil {
		return nil, err
	}
	log.Debug().Stringer("source", key).Stringer("program", h).Msg("program cached")
	return p, nil
}

func (c *ProgramCache) count(hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

type ProgramStats struct {
	Sources int
	Hits    int
	Misses  int
}

func (c *ProgramCache) Stats() ProgramStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ProgramStats{Sources: len(c.index), Hits: c.hits, Misses: c.misses}
}
