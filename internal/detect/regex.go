package detect

import (
	"context"
	"regexp"
	"sort"
)

// pattern pairs a compiled regex with a base confidence score. If the
// regex defines a capture group, group 1 is the reported span; otherwise
// the whole match is. Confidence reflects how specifically the pattern
// identifies the target entity type.
type pattern struct {
	re         *regexp.Regexp
	confidence float64
}

// recognizer is all the patterns for one entity type.
type recognizer struct {
	entityType string
	patterns   []pattern
}

// RegexDetector is the bundled pattern-matching detector. It covers the
// structured entity types (email, phone, card numbers, SSN, ...) plus
// conversational recognizers for disclosures that only make sense in
// chat ("I live in ...", "my name is ...", "diagnosed with ...").
type RegexDetector struct {
	recognizers []recognizer
}

// NewRegexDetector builds the detector with all recognizers compiled.
func NewRegexDetector() *RegexDetector {
	return &RegexDetector{recognizers: []recognizer{
		{
			entityType: "EMAIL_ADDRESS",
			patterns: []pattern{
				{regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`), 0.95},
			},
		},
		{
			entityType: "PHONE_NUMBER",
			patterns: []pattern{
				{regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`), 0.7},
			},
		},
		{
			entityType: "URL",
			patterns: []pattern{
				{regexp.MustCompile(`https?://[^\s"'<>]+`), 0.6},
			},
		},
		{
			entityType: "IP_ADDRESS",
			patterns: []pattern{
				// Octets validated 0-255, not just any 3-digit run.
				{regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])\.){3}(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])\b`), 0.8},
			},
		},
		{
			entityType: "CREDIT_CARD",
			patterns: []pattern{
				{regexp.MustCompile(`\b(?:\d[ -]*?){13,16}\b`), 0.75},
			},
		},
		{
			entityType: "US_SSN",
			patterns: []pattern{
				{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), 0.85},
			},
		},
		{
			entityType: "PERSON",
			patterns: []pattern{
				{regexp.MustCompile(`\b(?:[Mm]y name(?:'s| is)|[Cc]all me|[Ii]'m called)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`), 0.85},
			},
		},
		{
			entityType: "LOCATION",
			patterns: []pattern{
				{regexp.MustCompile(`\b(?:[Ll]ive[sd]? in|[Bb]ased in|[Mm]oved to|[Gg]rew up in|[Bb]orn in)\s+([A-Z][A-Za-z]*(?:[ ,]+[A-Z][A-Za-z]*)*)`), 0.85},
			},
		},
		{
			entityType: "DATE_TIME",
			patterns: []pattern{
				{regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s*\d{4})?\b`), 0.6},
				{regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`), 0.6},
			},
		},
		{
			entityType: "EDUCATION_LEVEL",
			patterns: []pattern{
				{regexp.MustCompile(`(?i)\b(?:college|university|high school|grad|graduate|undergraduate|freshman|sophomore|junior|senior|phd|masters|bachelor|associate)\s*(?:student|degree|program)?\b`), 0.7},
				{regexp.MustCompile(`(?i)\b(?:studying|enrolled|attending|graduated from|degree in|major in|majoring in)\b`), 0.6},
			},
		},
		{
			entityType: "SCHOOL_NAME",
			patterns: []pattern{
				{regexp.MustCompile(`\b[A-Z][A-Za-z]+\s+(?:University|College|Institute|Academy)\b(?:\s+of\s+[A-Z][A-Za-z]+)?`), 0.65},
			},
		},
		{
			entityType: "OCCUPATION",
			patterns: []pattern{
				{regexp.MustCompile(`(?i)\b(?:engineer|developer|doctor|nurse|teacher|professor|lawyer|accountant|manager|director|analyst|consultant|designer|architect|scientist|researcher|writer|journalist|artist|chef|pilot|mechanic|electrician|plumber|carpenter|salesperson|marketer|ceo|cto|cfo|vp|president)\b`), 0.6},
				{regexp.MustCompile(`(?i)\b(?:work at|work for|employed by|job at|position at|my company|my employer|my boss|my job)\b`), 0.5},
			},
		},
		{
			entityType: "EMPLOYER",
			patterns: []pattern{
				{regexp.MustCompile(`\b(?:work(?:s|ed)? (?:at|for)|employed by|job at)\s+([A-Z][A-Za-z0-9&'.\-]*(?:\s+[A-Z][A-Za-z0-9&'.\-]*)*)`), 0.7},
			},
		},
		{
			entityType: "RELATIONSHIP",
			patterns: []pattern{
				{regexp.MustCompile(`(?i)\b(?:my\s+)?(?:husband|wife|spouse|partner|boyfriend|girlfriend|mother|father|mom|dad|son|daughter|brother|sister|grandmother|grandfather|grandma|grandpa|aunt|uncle|cousin|niece|nephew|in-law|stepmother|stepfather)\b`), 0.7},
				{regexp.MustCompile(`(?i)\b(?:married|single|divorced|widowed|engaged|dating)\b`), 0.6},
			},
		},
		{
			entityType: "AGE",
			patterns: []pattern{
				{regexp.MustCompile(`(?i)\b(?:i am|i'm|i was|turned|turning)\s*\d{1,3}\s*(?:years old|year old|yo)?\b`), 0.85},
				{regexp.MustCompile(`(?i)\b\d{1,2}\s*(?:years old|year old|yo)\b`), 0.8},
			},
		},
		{
			entityType: "AGE_GROUP",
			patterns: []pattern{
				{regexp.MustCompile(`(?i)\b(?:teenager|teen|adolescent|young adult|middle-aged|elderly|senior citizen|in my\s*(?:twenties|thirties|forties|fifties|sixties|20s|30s|40s|50s|60s|70s|80s|90s))\b`), 0.7},
			},
		},
		{
			entityType: "HEALTH_CONDITION",
			patterns: []pattern{
				{regexp.MustCompile(`(?i)\b(?:diagnosed with|suffering from|have|had)\s+(?:diabetes|cancer|asthma|depression|anxiety|adhd|autism|arthritis|hypertension|heart disease|epilepsy|multiple sclerosis|parkinson|alzheimer|hiv|aids)\b`), 0.8},
				{regexp.MustCompile(`(?i)\b(?:my doctor|my therapist|my psychiatrist|my medication|taking pills|prescription|hospital visit|surgery|treatment)\b`), 0.6},
			},
		},
	}}
}

// Analyze runs every recognizer over the text. The language tag is
// accepted for interface compatibility; the bundled patterns are
// English-only.
func (d *RegexDetector) Analyze(ctx context.Context, text, language string) ([]Detection, error) {
	if text == "" {
		return nil, nil
	}

	var out []Detection
	for _, rec := range d.recognizers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, p := range rec.patterns {
			for _, idx := range p.re.FindAllStringSubmatchIndex(text, -1) {
				start, end := idx[0], idx[1]
				// Prefer the capture group when the pattern defines one:
				// cue phrases ("my name is X") should report X, not the cue.
				if len(idx) >= 4 && idx[2] >= 0 {
					start, end = idx[2], idx[3]
				}
				if start == end {
					continue
				}
				out = append(out, Detection{
					EntityType: rec.entityType,
					Start:      start,
					End:        end,
					Confidence: p.confidence,
				})
			}
		}
	}
	return out, nil
}

// SupportedEntities returns the sorted entity-type vocabulary.
func (d *RegexDetector) SupportedEntities() []string {
	out := make([]string, 0, len(d.recognizers))
	for _, rec := range d.recognizers {
		out = append(out, rec.entityType)
	}
	sort.Strings(out)
	return out
}
