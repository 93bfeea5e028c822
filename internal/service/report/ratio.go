package report

import (
	"fmt"
	"sort"
)

// Ratio is a derived percentage. Value is 0..100 (or more when the numerator
// exceeds the denominator); Display is the formatted string shown to users.
type Ratio struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// Percent computes num/den as a percentage. A zero denominator yields "0%".
func Percent(num, den float64) Ratio {
	if den == 0 {
		return Ratio{Display: "0%"}
	}
	v := num / den * 100
	return Ratio{Value: v, Display: fmt.Sprintf("%.1f%%", v)}
}

// Average returns sum/n, or 0 when n is 0.
func Average(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Ranked is one entry of a ranking.
type Ranked struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// rank orders counts by value descending, ties broken by name, and keeps at
// most limit entries (all when limit <= 0).
func rank(counts map[string]int64, limit int) []Ranked {
	out := make([]Ranked, 0, len(counts))
	for name, v := range counts {
		out = append(out, Ranked{Name: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
