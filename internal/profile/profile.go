// Package profile aggregates detected PII entities across a conversation
// into a categorized profile and scores how identifying the accumulated
// disclosures are in combination.
package profile

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/theo-privacy/theo/internal/pii"
)

// OtherCategory collects entity types with no explicit category mapping.
// The detection vocabulary is open; unknown types are data, not errors.
const OtherCategory = "other"

// EmptyContext is returned by InferenceContext when nothing has been
// detected yet.
const EmptyContext = "No personal information detected yet."

// entityCategories maps entity types to scoring categories. Types absent
// from the map fall into OtherCategory.
var entityCategories = map[string]string{
	// Identity
	"PERSON": "identity",
	"NRP":    "identity",

	// Contact
	"PHONE_NUMBER":  "contact",
	"EMAIL_ADDRESS": "contact",
	"URL":           "contact",
	"IP_ADDRESS":    "contact",

	// Location
	"LOCATION": "location",

	// Time
	"DATE_TIME": "temporal",

	// Financial
	"CREDIT_CARD":    "financial",
	"IBAN_CODE":      "financial",
	"IN_PAN":         "financial",
	"US_BANK_NUMBER": "financial",
	"CRYPTO":         "financial",
	"US_ITIN":        "financial",

	// Government IDs
	"IN_AADHAAR":        "government_id",
	"IN_PASSPORT":       "government_id",
	"AU_ABN":            "government_id",
	"AU_ACN":            "government_id",
	"SG_NRIC_FIN":       "government_id",
	"AU_TFN":            "government_id",
	"UK_NINO":           "government_id",
	"US_SSN":            "government_id",
	"US_PASSPORT":       "government_id",
	"IN_VOTER":          "government_id",
	"US_DRIVER_LICENSE": "government_id",

	// Medical
	"UK_NHS":           "health",
	"AU_MEDICARE":      "health",
	"MEDICAL_LICENSE":  "health",
	"HEALTH_CONDITION": "health",
	"MEDICAL_TERM":     "health",

	// Vehicle
	"IN_VEHICLE_REGISTRATION": "vehicle",

	// Education
	"EDUCATION_LEVEL": "education",
	"SCHOOL_NAME":     "education",

	// Employment
	"OCCUPATION": "employment",
	"EMPLOYER":   "employment",

	// Relationships
	"RELATIONSHIP":  "relationships",
	"FAMILY_MEMBER": "relationships",

	// Age
	"AGE":       "demographics",
	"AGE_GROUP": "demographics",
}

// categoryMeta holds display metadata for a category.
type categoryMeta struct {
	Name  string
	Color string
	Icon  string
}

var categoryInfo = map[string]categoryMeta{
	"identity":      {Name: "Identity", Color: "#FF7D63", Icon: "user"},
	"contact":       {Name: "Contact Info", Color: "#8E44AD", Icon: "phone"},
	"location":      {Name: "Location", Color: "#F1C40F", Icon: "map-marker"},
	"temporal":      {Name: "Dates & Times", Color: "#F67280", Icon: "calendar"},
	"financial":     {Name: "Financial", Color: "#1569C7", Icon: "credit-card"},
	"government_id": {Name: "Government IDs", Color: "#2980B9", Icon: "id-card"},
	"health":        {Name: "Health", Color: "#872657", Icon: "heart"},
	"vehicle":       {Name: "Vehicle", Color: "#FFBF00", Icon: "car"},
	"education":     {Name: "Education", Color: "#9B59B6", Icon: "graduation-cap"},
	"employment":    {Name: "Employment", Color: "#3498DB", Icon: "briefcase"},
	"relationships": {Name: "Relationships", Color: "#E74C3C", Icon: "users"},
	"demographics":  {Name: "Demographics", Color: "#1ABC9C", Icon: "info-circle"},
	OtherCategory:   {Name: "Other", Color: pii.DefaultColor, Icon: "question-circle"},
}

// CategoryOf resolves the scoring category for an entity type.
func CategoryOf(entityType string) string {
	if c, ok := entityCategories[entityType]; ok {
		return c
	}
	return OtherCategory
}

// EntityRecord is the per-entity detail retained for rendering; the
// scorer only ever reads the deduplicated value sets.
type EntityRecord struct {
	Text         string  `json:"text"`
	EntityType   string  `json:"type"`
	Confidence   float64 `json:"score"`
	MessageIndex int     `json:"message_index"`
}

// Category is one populated grouping in a profile.
type Category struct {
	key      string
	meta     categoryMeta
	entities []EntityRecord
	values   map[string]struct{}
}

// Profile is the aggregate PII picture for one conversation. Categories
// are created lazily on first contribution. Not safe for concurrent use;
// the owning session serializes access.
type Profile struct {
	categories map[string]*Category
	total      int
}

// New returns an empty profile.
func New() *Profile {
	return &Profile{categories: make(map[string]*Category)}
}

// Absorb folds entities into the profile. Absorption is commutative and
// idempotent: re-absorbing the same text (any case/whitespace variant)
// into a category changes nothing.
func (p *Profile) Absorb(entities ...pii.Entity) {
	for _, e := range entities {
		key := CategoryOf(e.EntityType)
		cat, ok := p.categories[key]
		if !ok {
			meta, known := categoryInfo[key]
			if !known {
				meta = categoryMeta{Name: key, Color: pii.DefaultColor, Icon: "question-circle"}
			}
			cat = &Category{key: key, meta: meta, values: make(map[string]struct{})}
			p.categories[key] = cat
		}
		cat.entities = append(cat.entities, EntityRecord{
			Text:         e.Text,
			EntityType:   e.EntityType,
			Confidence:   e.Confidence,
			MessageIndex: e.MessageIndex,
		})
		cat.values[strings.ToLower(strings.TrimSpace(e.Text))] = struct{}{}
		p.total++
	}
}

// UniqueCount returns the number of distinct normalized values in a
// category; zero when the category has not been populated.
func (p *Profile) UniqueCount(category string) int {
	if cat, ok := p.categories[category]; ok {
		return len(cat.values)
	}
	return 0
}

// TotalEntities returns the number of entity records absorbed.
func (p *Profile) TotalEntities() int {
	return p.total
}

// Values returns the sorted distinct values of a category.
func (p *Profile) Values(category string) []string {
	cat, ok := p.categories[category]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(cat.values))
	for v := range cat.values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// sortedKeys returns populated category keys in deterministic order.
func (p *Profile) sortedKeys() []string {
	keys := make([]string, 0, len(p.categories))
	for k := range p.categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Hash digests the deduplicated profile content. Used as a cache key for
// AI narration; not a security mechanism.
func (p *Profile) Hash() string {
	var parts []string
	for _, key := range p.sortedKeys() {
		for _, v := range p.Values(key) {
			parts = append(parts, key+"|"+v)
		}
	}
	sum := md5.Sum([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(sum[:])
}

// InferenceContext renders the profile as one line per populated
// category, the flattened form consumed by the narration engine.
func (p *Profile) InferenceContext() string {
	var lines []string
	for _, key := range p.sortedKeys() {
		cat := p.categories[key]
		if len(cat.values) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", cat.meta.Name, strings.Join(p.Values(key), ", ")))
	}
	if len(lines) == 0 {
		return EmptyContext
	}
	return strings.Join(lines, "\n")
}

// Summary renders a short human-readable line per populated category,
// truncated to the first three values.
func (p *Profile) Summary() []string {
	var out []string
	for _, key := range p.sortedKeys() {
		cat := p.categories[key]
		n := len(cat.values)
		if n == 0 {
			continue
		}
		values := p.Values(key)
		shown := values
		if len(shown) > 3 {
			shown = shown[:3]
		}
		line := fmt.Sprintf("%s: %s", cat.meta.Name, strings.Join(shown, ", "))
		if n > 3 {
			line += fmt.Sprintf(" (+%d more)", n-3)
		}
		out = append(out, line)
	}
	return out
}
