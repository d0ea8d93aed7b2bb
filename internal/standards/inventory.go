package standards

import "sort"

// CoefficientEntry is one coefficient with its identifying keys, used for
// dataset inspection.
type CoefficientEntry struct {
	Category string
	Key      string
	Value    float64
	Citation string
}

// Coefficients returns every coefficient, sorted by category then key.
func (t *Table) Coefficients() []CoefficientEntry {
	entries := make([]CoefficientEntry, 0, len(t.coefficients))
	for k, c := range t.coefficients {
		entries = append(entries, CoefficientEntry{
			Category: k.category,
			Key:      k.key,
			Value:    c.Value,
			Citation: c.Citation,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Category != entries[j].Category {
			return entries[i].Category < entries[j].Category
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// SeriesEntry is one breakpoint series with its identifying keys.
type SeriesEntry struct {
	Category string
	Standard Standard
	Citation string
	Points   []Point
}

// AllSeries returns every breakpoint series, sorted by category then
// standard.
func (t *Table) AllSeries() []SeriesEntry {
	entries := make([]SeriesEntry, 0, len(t.series))
	for k, s := range t.series {
		entries = append(entries, SeriesEntry{
			Category: k.category,
			Standard: k.standard,
			Citation: s.Citation,
			Points:   s.Points,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Category != entries[j].Category {
			return entries[i].Category < entries[j].Category
		}
		return entries[i].Standard < entries[j].Standard
	})
	return entries
}

// LadderEntry is one size ladder with its identifying keys.
type LadderEntry struct {
	Name     string
	Standard Standard
	Citation string
	Sizes    []float64
}

// AllLadders returns every size ladder, sorted by name then standard.
func (t *Table) AllLadders() []LadderEntry {
	entries := make([]LadderEntry, 0, len(t.ladders))
	for k, l := range t.ladders {
		entries = append(entries, LadderEntry{
			Name:     k.name,
			Standard: k.standard,
			Citation: l.Citation,
			Sizes:    l.Sizes,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Standard < entries[j].Standard
	})
	return entries
}
