package luckbook

import (
	"slices"
	"sort"
)

// FrequencyEntry is the historical draw frequency of one number
type FrequencyEntry struct {
	Number     int     `json:"number"`
	Frequency  int     `json:"frequency"`
	Percentage float64 `json:"percentage"`
}

// FrequencyRanking holds the most and least frequent numbers
type FrequencyRanking struct {
	Top    []FrequencyEntry `json:"top"`
	Bottom []FrequencyEntry `json:"bottom"`
}

// RankFrequencies orders the table by descending frequency, keeping the input
// order among ties. Top is the first RankingSize entries, Bottom the last
// RankingSize of the same order, reversed so the rarest comes first.
// Tables shorter than 2*RankingSize produce overlapping rankings.
func RankFrequencies(table []FrequencyEntry) FrequencyRanking {
	ordered := slices.Clone(table)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Frequency > ordered[j].Frequency
	})

	n := min(RankingSize, len(ordered))

	top := make([]FrequencyEntry, n)
	copy(top, ordered[:n])

	bottom := make([]FrequencyEntry, n)
	copy(bottom, ordered[len(ordered)-n:])
	slices.Reverse(bottom)

	return FrequencyRanking{Top: top, Bottom: bottom}
}

// FrequencyTable returns a copy of the static frequency fixture of a variant
func FrequencyTable(id VariantID) ([]FrequencyEntry, error) {
	table, ok := frequencyFixtures[id]
	if !ok {
		return nil, ErrUnknownVariant.WithDetailsf("variant=%q", id)
	}
	return slices.Clone(table), nil
}

// VariantStatistics ranks the fixture of a variant
func VariantStatistics(id VariantID) (FrequencyRanking, error) {
	table, err := FrequencyTable(id)
	if err != nil {
		return FrequencyRanking{}, err
	}
	return RankFrequencies(table), nil
}

// frequencyFixtures are static sample tables; there is no live draw feed
var frequencyFixtures = map[VariantID][]FrequencyEntry{
	MegaSena: {
		{10, 287, 11.2}, {53, 282, 11.0}, {5, 280, 10.9}, {23, 278, 10.8}, {33, 276, 10.7},
		{4, 274, 10.6}, {42, 272, 10.6}, {37, 270, 10.5}, {24, 268, 10.4}, {51, 266, 10.3},
		{26, 210, 8.2}, {55, 208, 8.1}, {9, 206, 8.0}, {21, 204, 7.9}, {39, 202, 7.8},
	},
	Quina: {
		{4, 452, 9.8}, {52, 448, 9.7}, {16, 445, 9.6}, {39, 442, 9.5}, {70, 440, 9.5},
		{25, 438, 9.4}, {61, 435, 9.4}, {11, 432, 9.3}, {74, 430, 9.3}, {3, 428, 9.2},
		{77, 380, 8.2}, {19, 378, 8.1}, {45, 375, 8.1}, {66, 372, 8.0}, {80, 370, 8.0},
	},
	Lotofacil: {
		{20, 1892, 64.2}, {10, 1885, 64.0}, {25, 1880, 63.8}, {11, 1875, 63.6}, {14, 1870, 63.5},
		{3, 1865, 63.3}, {5, 1860, 63.1}, {13, 1855, 62.9}, {24, 1850, 62.8}, {4, 1845, 62.6},
		{16, 1720, 58.4}, {22, 1715, 58.2}, {8, 1710, 58.0}, {1, 1705, 57.9}, {19, 1700, 57.7},
	},
	Lotomania: {
		{47, 520, 26.0}, {33, 518, 25.9}, {16, 515, 25.7}, {90, 512, 25.6}, {5, 510, 25.5},
		{70, 508, 25.4}, {24, 505, 25.2}, {81, 502, 25.1}, {62, 500, 25.0}, {4, 498, 24.9},
		{99, 420, 21.0}, {0, 418, 20.9}, {55, 415, 20.7}, {78, 412, 20.6}, {31, 410, 20.5},
	},
	DuplaSena: {
		{10, 320, 12.8}, {50, 318, 12.7}, {5, 315, 12.6}, {41, 312, 12.5}, {25, 310, 12.4},
		{3, 308, 12.3}, {38, 305, 12.2}, {17, 302, 12.1}, {46, 300, 12.0}, {22, 298, 11.9},
		{48, 250, 10.0}, {30, 248, 9.9}, {15, 245, 9.8}, {7, 242, 9.7}, {44, 240, 9.6},
	},
	Timemania: {
		{7, 245, 15.3}, {27, 242, 15.1}, {80, 240, 15.0}, {13, 238, 14.9}, {52, 235, 14.7},
		{36, 232, 14.5}, {61, 230, 14.4}, {4, 228, 14.2}, {74, 225, 14.1}, {19, 222, 13.9},
		{78, 180, 11.2}, {45, 178, 11.1}, {66, 175, 10.9}, {33, 172, 10.7}, {9, 170, 10.6},
	},
}
