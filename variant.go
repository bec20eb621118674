package luckbook

import "slices"

// VariantID identifies a supported lottery
type VariantID string

const (
	MegaSena  VariantID = "mega-sena"
	Quina     VariantID = "quina"
	Lotofacil VariantID = "lotofacil"
	Lotomania VariantID = "lotomania"
	DuplaSena VariantID = "dupla-sena"
	Timemania VariantID = "timemania"
)

// Variant is the static configuration of one lottery
type Variant struct {
	ID            VariantID `json:"id"`
	Name          string    `json:"name"`
	DefaultCount  int       `json:"default_count"`
	AllowedCounts []int     `json:"allowed_counts"`
	Min           int       `json:"min"`
	Max           int       `json:"max"`
	SpecialRules  bool      `json:"special_rules"`
}

// RangeSize is the number of distinct values a set may draw from
func (v Variant) RangeSize() int {
	return v.Max - v.Min + 1
}

// SupportsCount reports whether count is one of the variant's allowed set sizes
func (v Variant) SupportsCount(count int) bool {
	return slices.Contains(v.AllowedCounts, count)
}

// Contains reports whether n lies within [Min, Max]
func (v Variant) Contains(n int) bool {
	return n >= v.Min && n <= v.Max
}

var variants = []Variant{
	{ID: MegaSena, Name: "Mega-Sena", DefaultCount: 6, AllowedCounts: []int{6, 7}, Min: 1, Max: 60, SpecialRules: true},
	{ID: Quina, Name: "Quina", DefaultCount: 5, AllowedCounts: []int{5}, Min: 1, Max: 80},
	{ID: Lotofacil, Name: "Lotofácil", DefaultCount: 15, AllowedCounts: []int{15}, Min: 1, Max: 25},
	{ID: Lotomania, Name: "Lotomania", DefaultCount: 50, AllowedCounts: []int{50}, Min: 0, Max: 99},
	{ID: DuplaSena, Name: "Dupla Sena", DefaultCount: 6, AllowedCounts: []int{6}, Min: 1, Max: 50},
	{ID: Timemania, Name: "Timemania", DefaultCount: 10, AllowedCounts: []int{10}, Min: 1, Max: 80},
}

// Variants returns every supported lottery in display order
func Variants() []Variant {
	out := make([]Variant, len(variants))
	for i, v := range variants {
		out[i] = v
		out[i].AllowedCounts = slices.Clone(v.AllowedCounts)
	}
	return out
}

// LookupVariant finds a variant by identifier
func LookupVariant(id VariantID) (Variant, error) {
	for _, v := range variants {
		if v.ID == id {
			v.AllowedCounts = slices.Clone(v.AllowedCounts)
			return v, nil
		}
	}
	return Variant{}, ErrUnknownVariant.WithDetailsf("variant=%q", id)
}

// resolveCount maps count 0 to the default and rejects sizes the variant does not allow
func (v Variant) resolveCount(count int) (int, error) {
	if count == 0 {
		return v.DefaultCount, nil
	}
	if count < 0 || count > v.RangeSize() || !v.SupportsCount(count) {
		return 0, ErrInvalidCount.WithDetailsf("variant=%s, count=%d, allowed=%v", v.ID, count, v.AllowedCounts)
	}
	return count, nil
}
