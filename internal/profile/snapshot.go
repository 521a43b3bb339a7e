package profile

// CategorySnapshot is the wire form of one populated category.
type CategorySnapshot struct {
	Name         string         `json:"name"`
	Color        string         `json:"color"`
	Icon         string         `json:"icon"`
	Entities     []EntityRecord `json:"entities"`
	UniqueValues []string       `json:"unique_values"`
	Count        int            `json:"count"`
}

// Snapshot is the wire form of a whole profile, detached from the live
// aggregate so callers can hold it without a lock.
type Snapshot struct {
	Categories           map[string]CategorySnapshot `json:"categories"`
	TotalEntities        int                         `json:"total_entities"`
	IdentifiabilityScore int                         `json:"identifiability_score"`
	Summary              []string                    `json:"summary"`
}

// Snapshot copies the profile into its wire form.
func (p *Profile) Snapshot() Snapshot {
	cats := make(map[string]CategorySnapshot, len(p.categories))
	for key, cat := range p.categories {
		entities := make([]EntityRecord, len(cat.entities))
		copy(entities, cat.entities)
		cats[key] = CategorySnapshot{
			Name:         cat.meta.Name,
			Color:        cat.meta.Color,
			Icon:         cat.meta.Icon,
			Entities:     entities,
			UniqueValues: p.Values(key),
			Count:        len(cat.values),
		}
	}
	return Snapshot{
		Categories:           cats,
		TotalEntities:        p.total,
		IdentifiabilityScore: p.Score(),
		Summary:              p.Summary(),
	}
}
