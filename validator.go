package luckbook

import "slices"

// ValidationResult carries the outcome of every sub-rule as well as the overall verdict
type ValidationResult struct {
	Valid            bool `json:"valid"`
	ParityBalance    bool `json:"parity_balance"`
	HighNumbers      bool `json:"high_numbers"`
	QuadrantCoverage bool `json:"quadrant_coverage"`
	NoLongRuns       bool `json:"no_long_runs"`
}

// quadrant bounds, inclusive
var quadrants = [4][2]int{{1, 15}, {16, 30}, {31, 45}, {46, 60}}

// Validate runs the four heuristics against numbers.
// It never fails: empty, duplicated or out-of-range input just yields a verdict.
func Validate(numbers []int) ValidationResult {
	r := ValidationResult{
		ParityBalance:    CheckParityBalance(numbers),
		HighNumbers:      CheckHighNumbers(numbers),
		QuadrantCoverage: CheckQuadrantCoverage(numbers),
		NoLongRuns:       CheckNoLongRuns(numbers),
	}
	r.Valid = r.ParityBalance && r.HighNumbers && r.QuadrantCoverage && r.NoLongRuns
	return r
}

// IsValid is shorthand for Validate(numbers).Valid
func IsValid(numbers []int) bool {
	return Validate(numbers).Valid
}

// CheckParityBalance accepts 3/3, 4/2 or 2/4 even/odd splits for six numbers and
// 4/3, 3/4, 5/2 or 2/5 for seven. Other lengths pass.
func CheckParityBalance(numbers []int) bool {
	even := 0
	for _, n := range numbers {
		if n%2 == 0 {
			even++
		}
	}
	odd := len(numbers) - even

	switch len(numbers) {
	case 6:
		return (even == 3 && odd == 3) || (even == 4 && odd == 2) || (even == 2 && odd == 4)
	case 7:
		return (even == 4 && odd == 3) || (even == 3 && odd == 4) ||
			(even == 5 && odd == 2) || (even == 2 && odd == 5)
	default:
		return true
	}
}

// CheckHighNumbers requires at least two members above 31 for six or seven numbers
func CheckHighNumbers(numbers []int) bool {
	if len(numbers) != 6 && len(numbers) != 7 {
		return true
	}

	high := 0
	for _, n := range numbers {
		if n > HighNumberThreshold {
			high++
		}
	}
	return high >= MinHighNumbers
}

// CheckQuadrantCoverage requires members in at least three of the quadrants
// 1-15, 16-30, 31-45, 46-60. Members outside 1-60 touch no quadrant.
func CheckQuadrantCoverage(numbers []int) bool {
	var touched [len(quadrants)]bool
	for _, n := range numbers {
		for i, q := range quadrants {
			if n >= q[0] && n <= q[1] {
				touched[i] = true
				break
			}
		}
	}

	covered := 0
	for _, t := range touched {
		if t {
			covered++
		}
	}
	return covered >= MinQuadrants
}

// CheckNoLongRuns rejects three or more consecutive integers once sorted.
// Duplicates break a run.
func CheckNoLongRuns(numbers []int) bool {
	if len(numbers) <= MaxRunLength {
		return true
	}

	sorted := slices.Clone(numbers)
	slices.Sort(sorted)

	run := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1]+1 {
			run++
			if run > MaxRunLength {
				return false
			}
		} else {
			run = 1
		}
	}
	return true
}
