package luckbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		numbers  []int
		expected ValidationResult
	}{
		{
			name:    "balanced_six",
			numbers: []int{4, 15, 22, 37, 41, 58},
			expected: ValidationResult{
				Valid: true, ParityBalance: true, HighNumbers: true, QuadrantCoverage: true, NoLongRuns: true,
			},
		},
		{
			name:    "run_of_three",
			numbers: []int{1, 2, 3, 40, 50, 60},
			expected: ValidationResult{
				Valid: false, ParityBalance: true, HighNumbers: true, QuadrantCoverage: true, NoLongRuns: false,
			},
		},
		{
			name:    "all_even_low",
			numbers: []int{2, 4, 6, 8, 10, 12},
			expected: ValidationResult{
				Valid: false, ParityBalance: false, HighNumbers: false, QuadrantCoverage: false, NoLongRuns: true,
			},
		},
		{
			name:    "spread_six",
			numbers: []int{10, 20, 30, 35, 45, 55},
			expected: ValidationResult{
				Valid: true, ParityBalance: true, HighNumbers: true, QuadrantCoverage: true, NoLongRuns: true,
			},
		},
		{
			name:    "balanced_seven",
			numbers: []int{5, 12, 19, 33, 40, 47, 58},
			expected: ValidationResult{
				Valid: true, ParityBalance: true, HighNumbers: true, QuadrantCoverage: true, NoLongRuns: true,
			},
		},
		{
			name:    "seven_six_even",
			numbers: []int{2, 4, 6, 32, 44, 50, 51},
			expected: ValidationResult{
				Valid: false, ParityBalance: false, HighNumbers: true, QuadrantCoverage: true, NoLongRuns: true,
			},
		},
		{
			name:    "all_odd_one_high",
			numbers: []int{1, 3, 5, 7, 9, 33},
			expected: ValidationResult{
				Valid: false, ParityBalance: false, HighNumbers: false, QuadrantCoverage: false, NoLongRuns: true,
			},
		},
		{
			name:    "low_run_with_high_tail",
			numbers: []int{10, 11, 12, 40, 50, 60},
			expected: ValidationResult{
				Valid: false, ParityBalance: false, HighNumbers: true, QuadrantCoverage: true, NoLongRuns: false,
			},
		},
		{
			name:    "unsorted_input",
			numbers: []int{58, 4, 41, 15, 37, 22},
			expected: ValidationResult{
				Valid: true, ParityBalance: true, HighNumbers: true, QuadrantCoverage: true, NoLongRuns: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Validate(tt.numbers))
		})
	}
}

func TestCheckParityBalance(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
		want    bool
	}{
		{"six_3_3", []int{1, 2, 3, 4, 5, 6}, true},
		{"six_4_2", []int{2, 4, 6, 8, 1, 3}, true},
		{"six_2_4", []int{2, 4, 1, 3, 5, 7}, true},
		{"six_5_1", []int{2, 4, 6, 8, 10, 1}, false},
		{"six_1_5", []int{2, 1, 3, 5, 7, 9}, false},
		{"six_0_6", []int{1, 3, 5, 7, 9, 11}, false},
		{"seven_4_3", []int{2, 4, 6, 8, 1, 3, 5}, true},
		{"seven_3_4", []int{2, 4, 6, 1, 3, 5, 7}, true},
		{"seven_5_2", []int{2, 4, 6, 8, 10, 1, 3}, true},
		{"seven_2_5", []int{2, 4, 1, 3, 5, 7, 9}, true},
		{"seven_6_1", []int{2, 4, 6, 8, 10, 12, 1}, false},
		{"seven_0_7", []int{1, 3, 5, 7, 9, 11, 13}, false},
		{"five_all_odd", []int{1, 3, 5, 7, 9}, true},
		{"fifteen_all_even", []int{2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 30}, true},
		{"empty", []int{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckParityBalance(tt.numbers))
		})
	}
}

func TestCheckHighNumbers(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
		want    bool
	}{
		{"six_two_high", []int{1, 2, 3, 4, 32, 33}, true},
		{"six_one_high", []int{1, 2, 3, 4, 5, 32}, false},
		{"six_31_is_not_high", []int{1, 2, 3, 4, 31, 31}, false},
		{"seven_two_high", []int{1, 2, 3, 4, 5, 40, 60}, true},
		{"seven_no_high", []int{1, 2, 3, 4, 5, 6, 7}, false},
		{"five_no_high", []int{1, 2, 3, 4, 5}, true},
		{"empty", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckHighNumbers(tt.numbers))
		})
	}
}

func TestCheckQuadrantCoverage(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
		want    bool
	}{
		{"four_quadrants", []int{1, 16, 31, 46}, true},
		{"three_quadrants", []int{15, 30, 45}, true},
		{"boundaries_two_quadrants", []int{15, 1, 16, 30}, false},
		{"one_quadrant", []int{1, 2, 3, 4, 5, 6}, false},
		{"out_of_range_ignored", []int{0, 61, 62, 100, -5, 70}, false},
		{"out_of_range_plus_three", []int{0, 61, 5, 20, 50}, true},
		{"empty", []int{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckQuadrantCoverage(tt.numbers))
		})
	}
}

func TestCheckNoLongRuns(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
		want    bool
	}{
		{"pairs_allowed", []int{10, 11, 30, 31, 50, 51}, true},
		{"triple_rejected", []int{10, 11, 12, 30, 40, 50}, false},
		{"unsorted_triple_rejected", []int{50, 12, 40, 10, 30, 11}, false},
		{"triple_at_end", []int{1, 20, 40, 58, 59, 60}, false},
		{"duplicates_break_run", []int{1, 2, 2, 3}, true},
		{"two_elements", []int{1, 2}, true},
		{"empty", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckNoLongRuns(tt.numbers))
		})
	}
}

func TestValidateProperties(t *testing.T) {
	rng := NewSeededRandomGenerator(42)
	generator := NewNumberGenerator(rng)
	megaSena, err := LookupVariant(MegaSena)
	require.NoError(t, err)

	t.Run("valid_is_conjunction_of_rules", func(t *testing.T) {
		for i := 0; i < 500; i++ {
			set, err := generator.sample(megaSena, 6)
			require.NoError(t, err)

			r := Validate(set)
			assert.Equal(t, r.ParityBalance && r.HighNumbers && r.QuadrantCoverage && r.NoLongRuns, r.Valid)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		set := []int{3, 17, 29, 38, 44, 59}
		assert.Equal(t, Validate(set), Validate(set))
	})

	t.Run("does_not_mutate_input", func(t *testing.T) {
		set := []int{58, 4, 41, 15, 37, 22}
		Validate(set)
		assert.Equal(t, []int{58, 4, 41, 15, 37, 22}, set)
	})

	t.Run("never_panics", func(t *testing.T) {
		inputs := [][]int{nil, {}, {7}, {1, 1, 1, 1, 1, 1}, {-10, -9, -8}, {1000, 2000, 3000, 4000, 5000, 6000, 7000}}
		for _, in := range inputs {
			assert.NotPanics(t, func() { Validate(in) })
		}
	})
}
