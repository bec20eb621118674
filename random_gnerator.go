package luckbook

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"sync"
	"time"
)

// SecureRandomGenerator implements secure random number generation using crypto/rand with caching
type SecureRandomGenerator struct {
	cache      []float64
	cacheSize  int
	cacheIndex int
	cacheMtx   sync.Mutex
}

// NewSecureRandomGenerator creates a new fast secure random generator with specified cache size
//
// If no cache size is provided, the default cache size will be used.
func NewSecureRandomGenerator(cacheSize ...int) *SecureRandomGenerator {
	size := DefaultFastRandomGeneratorCacheSize
	if len(cacheSize) > 0 && cacheSize[0] > 0 {
		size = cacheSize[0]
	}

	generator := &SecureRandomGenerator{
		cache:     make([]float64, size),
		cacheSize: size,
	}

	// 预填充缓存
	_ = generator.refillCache()
	return generator
}

// refillCache refills the random number cache. On failure the cache stays
// exhausted so the next call retries the refill.
func (g *SecureRandomGenerator) refillCache() error {
	for i := range g.cacheSize {
		val, err := generateFloat()
		if err != nil {
			g.cacheIndex = g.cacheSize
			return ErrRandomSource.WithCause(err)
		}
		g.cache[i] = val
	}

	g.cacheIndex = 0
	return nil
}

// GenerateFloat generates a secure random float in [0, 1)
func (g *SecureRandomGenerator) GenerateFloat() (float64, error) {
	g.cacheMtx.Lock()
	defer g.cacheMtx.Unlock()

	if g.cacheIndex >= g.cacheSize {
		if err := g.refillCache(); err != nil {
			return 0, err
		}
	}

	result := g.cache[g.cacheIndex]
	g.cacheIndex++
	return result, nil
}

// GenerateInRange generates a secure random number within [min, max] (inclusive)
func (g *SecureRandomGenerator) GenerateInRange(min, max int) (int, error) {
	if err := ValidateRange(min, max); err != nil {
		return 0, err
	}
	if min == max {
		return min, nil
	}

	randomFloat, err := g.GenerateFloat()
	if err != nil {
		return 0, err
	}

	rangeSize := max - min + 1
	result := int(randomFloat*float64(rangeSize)) + min

	// floating point precision guard
	if result > max {
		result = max
	}

	return result, nil
}

// generateFloat generates a secure random float between 0 and 1 (exclusive of 1)
func generateFloat() (float64, error) {
	randomBig, err := rand.Int(rand.Reader, big.NewInt(1<<53)) // 53 bits of mantissa
	if err != nil {
		return 0, err
	}

	return float64(randomBig.Int64()) / float64(1<<53), nil
}

// SeededRandomGenerator is a deterministic PCG stream. Two generators built
// from the same seed produce the same sequence, which makes draws replayable.
type SeededRandomGenerator struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededRandomGenerator creates a generator from a fixed seed
func NewSeededRandomGenerator(seed uint64) *SeededRandomGenerator {
	return &SeededRandomGenerator{
		rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// NewTimeSeededRandomGenerator seeds from the wall clock
func NewTimeSeededRandomGenerator() *SeededRandomGenerator {
	return NewSeededRandomGenerator(uint64(time.Now().UnixNano()))
}

// GenerateInRange returns a uniform integer in [min, max] (inclusive)
func (g *SeededRandomGenerator) GenerateInRange(min, max int) (int, error) {
	if err := ValidateRange(min, max); err != nil {
		return 0, err
	}
	if min == max {
		return min, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return min + g.rng.IntN(max-min+1), nil
}
