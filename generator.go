package luckbook

import (
	"slices"
	"sync"
	"time"
)

// NumberGenerator draws sets for a variant, enforcing the special rules where they apply
type NumberGenerator struct {
	rng         RandomGenerator
	retryBudget int
	logger      Logger
	monitor     *PerformanceMonitor
	mu          sync.Mutex
}

// NewNumberGenerator creates a generator with the default retry budget
func NewNumberGenerator(rng RandomGenerator) *NumberGenerator {
	return &NumberGenerator{
		rng:         rng,
		retryBudget: DefaultRetryBudget,
		logger:      NewSilentLogger(),
		monitor:     NewPerformanceMonitor(),
	}
}

// NewNumberGeneratorWithConfig creates a generator from generator config
func NewNumberGeneratorWithConfig(config *GeneratorConfig, logger Logger, monitor *PerformanceMonitor) (*NumberGenerator, error) {
	if config == nil {
		config = DefaultGeneratorConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewSilentLogger()
	}
	if monitor == nil {
		monitor = NewPerformanceMonitor()
	}

	var rng RandomGenerator
	if config.SecureRandom {
		rng = NewSecureRandomGenerator()
	} else {
		rng = NewTimeSeededRandomGenerator()
	}

	return &NumberGenerator{
		rng:         rng,
		retryBudget: config.RetryBudget,
		logger:      logger,
		monitor:     monitor,
	}, nil
}

// WithLogger replaces the generator's logger
func (g *NumberGenerator) WithLogger(logger Logger) *NumberGenerator {
	g.logger = logger
	return g
}

// WithMonitor replaces the generator's performance monitor
func (g *NumberGenerator) WithMonitor(monitor *PerformanceMonitor) *NumberGenerator {
	g.monitor = monitor
	return g
}

// WithRetryBudget sets how many candidates are drawn before falling back
func (g *NumberGenerator) WithRetryBudget(budget int) (*NumberGenerator, error) {
	if budget < 1 || budget > MaxRetryBudget {
		return nil, ErrInvalidRetryBudget
	}
	g.retryBudget = budget
	return g, nil
}

// RetryBudget returns the configured candidate budget
func (g *NumberGenerator) RetryBudget() int { return g.retryBudget }

// Generate draws one set for the variant. A count of 0 means the variant's default.
//
// Variants without special rules return the first sampled set. For variants with
// special rules up to RetryBudget candidates are drawn and the first one passing
// Validate is returned; when none does, a fresh unvalidated candidate is returned
// and the fallback is logged and counted.
func (g *NumberGenerator) Generate(id VariantID, count int) (GeneratedSet, error) {
	variant, err := LookupVariant(id)
	if err != nil {
		return nil, err
	}
	return g.GenerateFor(variant, count)
}

// GenerateFor is Generate for an already resolved variant
func (g *NumberGenerator) GenerateFor(variant Variant, count int) (GeneratedSet, error) {
	size, err := variant.resolveCount(count)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	if !variant.SpecialRules {
		set, err := g.sample(variant, size)
		if err != nil {
			g.logger.Error("Generate failed: variant=%s, count=%d, error=%v", variant.ID, size, err)
			return nil, err
		}
		g.monitor.RecordGeneration(GenerationUnvalidated, 1, time.Since(start))
		return set, nil
	}

	for attempt := 1; attempt <= g.retryBudget; attempt++ {
		candidate, err := g.sample(variant, size)
		if err != nil {
			g.logger.Error("Generate failed: variant=%s, count=%d, attempt=%d, error=%v", variant.ID, size, attempt, err)
			return nil, err
		}
		if IsValid(candidate) {
			g.monitor.RecordGeneration(GenerationValidated, attempt, time.Since(start))
			return candidate, nil
		}
	}

	// 重试预算耗尽: 返回未经验证的新候选
	fallback, err := g.sample(variant, size)
	if err != nil {
		g.logger.Error("Generate fallback failed: variant=%s, count=%d, error=%v", variant.ID, size, err)
		return nil, err
	}

	g.logger.Warn("Retry budget of %d exhausted for %s (count=%d), returning unvalidated set %s",
		g.retryBudget, variant.ID, size, fallback.Key())
	g.monitor.RecordGeneration(GenerationFallback, g.retryBudget+1, time.Since(start))
	return fallback, nil
}

// sample draws uniformly until size distinct members are collected, then sorts them
func (g *NumberGenerator) sample(variant Variant, size int) (GeneratedSet, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seen := make(map[int]struct{}, size)
	set := make(GeneratedSet, 0, size)
	for len(set) < size {
		n, err := g.rng.GenerateInRange(variant.Min, variant.Max)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		set = append(set, n)
	}

	slices.Sort(set)
	return set, nil
}
