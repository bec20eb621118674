package luckbook

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbersOf(entries []FrequencyEntry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Number
	}
	return out
}

func TestRankFrequencies(t *testing.T) {
	t.Run("mega_sena_fixture", func(t *testing.T) {
		table, err := FrequencyTable(MegaSena)
		require.NoError(t, err)

		ranking := RankFrequencies(table)
		require.Len(t, ranking.Top, RankingSize)
		require.Len(t, ranking.Bottom, RankingSize)

		assert.Equal(t, 10, ranking.Top[0].Number)
		assert.Equal(t, 287, ranking.Top[0].Frequency)
		assert.Equal(t, 51, ranking.Top[9].Number)
		assert.Equal(t, []int{39, 21, 9, 55, 26, 51, 24, 37, 42, 4}, numbersOf(ranking.Bottom))
	})

	t.Run("ties_keep_input_order", func(t *testing.T) {
		table := []FrequencyEntry{
			{Number: 1, Frequency: 5},
			{Number: 2, Frequency: 5},
			{Number: 3, Frequency: 7},
		}

		ranking := RankFrequencies(table)
		assert.Equal(t, []int{3, 1, 2}, numbersOf(ranking.Top))
		assert.Equal(t, []int{2, 1, 3}, numbersOf(ranking.Bottom))
	})

	t.Run("ten_entries_mirror", func(t *testing.T) {
		table := make([]FrequencyEntry, 10)
		for i := range table {
			table[i] = FrequencyEntry{Number: i + 1, Frequency: (i*7)%10 + 1}
		}

		ranking := RankFrequencies(table)
		require.Len(t, ranking.Top, 10)
		require.Len(t, ranking.Bottom, 10)

		reversed := numbersOf(ranking.Bottom)
		slices.Reverse(reversed)
		assert.Equal(t, numbersOf(ranking.Top), reversed)
	})

	t.Run("empty_table", func(t *testing.T) {
		ranking := RankFrequencies(nil)
		assert.Empty(t, ranking.Top)
		assert.Empty(t, ranking.Bottom)
	})

	t.Run("does_not_mutate_input", func(t *testing.T) {
		table := []FrequencyEntry{
			{Number: 7, Frequency: 1},
			{Number: 8, Frequency: 9},
			{Number: 9, Frequency: 4},
		}
		before := append([]FrequencyEntry(nil), table...)

		ranking := RankFrequencies(table)
		ranking.Top[0].Frequency = 1000

		assert.Equal(t, before, table)
	})

	t.Run("top_is_non_increasing", func(t *testing.T) {
		for _, v := range Variants() {
			ranking, err := VariantStatistics(v.ID)
			require.NoError(t, err)
			for i := 1; i < len(ranking.Top); i++ {
				assert.GreaterOrEqual(t, ranking.Top[i-1].Frequency, ranking.Top[i].Frequency, "variant %s", v.ID)
			}
			for i := 1; i < len(ranking.Bottom); i++ {
				assert.LessOrEqual(t, ranking.Bottom[i-1].Frequency, ranking.Bottom[i].Frequency, "variant %s", v.ID)
			}
		}
	})
}

func TestFrequencyTable(t *testing.T) {
	for _, v := range Variants() {
		t.Run(string(v.ID), func(t *testing.T) {
			table, err := FrequencyTable(v.ID)
			require.NoError(t, err)
			assert.NotEmpty(t, table)
			for _, e := range table {
				assert.True(t, v.Contains(e.Number), "number %d outside %s range", e.Number, v.ID)
			}
		})
	}

	t.Run("returns_copy", func(t *testing.T) {
		table, _ := FrequencyTable(Quina)
		table[0].Number = -1

		again, _ := FrequencyTable(Quina)
		assert.Equal(t, 4, again[0].Number)
	})

	t.Run("unknown_variant", func(t *testing.T) {
		_, err := FrequencyTable(VariantID("euromillions"))
		assert.ErrorIs(t, err, ErrUnknownVariant)

		_, err = VariantStatistics(VariantID("euromillions"))
		assert.ErrorIs(t, err, ErrUnknownVariant)
	})
}
