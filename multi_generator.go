package luckbook

import "time"

// GenerateMany produces up to MaxGamesPerBatch pairwise-distinct sets for the variant.
// Quantity above the cap is clamped; quantity <= 0 yields an empty result.
// When the attempt cap is reached first, the sets produced so far are returned
// together with ErrPartialGeneration.
func (g *NumberGenerator) GenerateMany(id VariantID, quantity, count int) ([]GeneratedSet, error) {
	result, err := g.GenerateBatch(id, quantity, count, nil)
	if result == nil {
		return nil, err
	}
	return result.Sets, err
}

// GenerateBatch is GenerateMany with progress reporting and generation stats
func (g *NumberGenerator) GenerateBatch(id VariantID, quantity, count int, progress ProgressCallback) (*BatchResult, error) {
	variant, err := LookupVariant(id)
	if err != nil {
		return nil, err
	}
	if _, err := variant.resolveCount(count); err != nil {
		return nil, err
	}

	target := clampQuantity(quantity)
	result := &BatchResult{
		Variant:   variant.ID,
		Sets:      make([]GeneratedSet, 0, target),
		Requested: target,
	}
	if target == 0 {
		return result, nil
	}

	start := time.Now()
	maxAttempts := target * g.retryBudget
	seen := make(map[string]struct{}, target)

	for len(result.Sets) < target && result.Attempts < maxAttempts {
		set, err := g.GenerateFor(variant, count)
		if err != nil {
			result.Produced = len(result.Sets)
			g.monitor.RecordBatch(result, time.Since(start))
			return result, err
		}
		result.Attempts++

		key := set.Key()
		if _, dup := seen[key]; dup {
			result.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		result.Sets = append(result.Sets, set)

		if progress != nil {
			progress(len(result.Sets), target, set)
		}
	}

	result.Produced = len(result.Sets)
	result.Partial = result.Produced < target
	g.monitor.RecordBatch(result, time.Since(start))

	if result.Partial {
		g.logger.Warn("GenerateMany stopped after %d attempts: variant=%s, produced=%d/%d, duplicates=%d",
			result.Attempts, variant.ID, result.Produced, target, result.Duplicates)
		return result, ErrPartialGeneration.WithDetailsf("produced %d of %d sets", result.Produced, target)
	}

	g.logger.Debug("GenerateMany completed: variant=%s, sets=%d, attempts=%d, duplicates=%d",
		variant.ID, result.Produced, result.Attempts, result.Duplicates)
	return result, nil
}

func clampQuantity(quantity int) int {
	if quantity <= 0 {
		return 0
	}
	return min(quantity, MaxGamesPerBatch)
}
