package profile

import "math"

// categoryWeights is the scoring policy: how identifying one disclosure
// from each category is. Tunable data, deliberately not code branches.
var categoryWeights = map[string]float64{
	"identity":      25, // names are highly identifying
	"government_id": 30, // IDs are very identifying
	"contact":       20,
	"location":      15,
	"employment":    10, // employer + location narrows fast
	"education":     10,
	"health":        5,
	"demographics":  5,
	"financial":     5,
	"relationships": 3,
	"temporal":      2,
	"vehicle":       2,
}

// defaultWeight applies to categories absent from the table, including
// the open-ended "other" bucket.
const defaultWeight = 1

// maxUniquePerCategory caps the marginal value of repeated same-category
// disclosures: beyond this many distinct values a category is saturated.
const maxUniquePerCategory = 3

// comboRule awards a bonus when every listed category has at least one
// value. Independent low-risk facts become highly identifying together.
type comboRule struct {
	categories []string
	bonus      float64
}

var comboRules = []comboRule{
	{categories: []string{"location", "education"}, bonus: 10},
	{categories: []string{"location", "employment"}, bonus: 10},
	{categories: []string{"identity", "location"}, bonus: 15},
}

// Score computes the identifiability score in [0,100]. Pure read: two
// calls without an intervening Absorb return the same value. An empty
// profile scores 0.
func (p *Profile) Score() int {
	var score float64

	for key, cat := range p.categories {
		n := len(cat.values)
		if n == 0 {
			continue
		}
		w, ok := categoryWeights[key]
		if !ok {
			w = defaultWeight
		}
		if n > maxUniquePerCategory {
			n = maxUniquePerCategory
		}
		score += w * float64(n) / maxUniquePerCategory
	}

	for _, rule := range comboRules {
		if p.hasAll(rule.categories) {
			score += rule.bonus
		}
	}

	rounded := int(math.Round(score))
	if rounded > 100 {
		return 100
	}
	return rounded
}

func (p *Profile) hasAll(categories []string) bool {
	for _, c := range categories {
		if p.UniqueCount(c) == 0 {
			return false
		}
	}
	return true
}
