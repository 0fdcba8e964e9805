package catalog

import (
	"sort"

	"github.com/artummeti/lc-vid-generator/internal/types"
)

// Eligible drops paid-only records and orders the rest by difficulty, then by
// ordinal id. The input slice is not modified.
func Eligible(records []types.ProblemRecord) []types.ProblemRef {
	out := make([]types.ProblemRef, 0, len(records))
	for _, r := range records {
		if r.PaidOnly {
			continue
		}
		out = append(out, types.ProblemRef{
			Slug:       r.Slug,
			Title:      r.Title,
			Difficulty: r.Difficulty,
			OrdinalID:  r.OrdinalID,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Difficulty != out[j].Difficulty {
			return out[i].Difficulty < out[j].Difficulty
		}
		return out[i].OrdinalID < out[j].OrdinalID
	})
	return out
}

// Select returns the first n eligible problems.
func Select(records []types.ProblemRecord, n int) []types.ProblemRef {
	if n <= 0 {
		return nil
	}
	el := Eligible(records)
	if len(el) > n {
		el = el[:n]
	}
	return el
}
