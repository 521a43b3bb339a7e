package pii

// DefaultColor is used for entity types missing from the color guide.
const DefaultColor = "#95A5A6"

// colorGuide maps entity types to display colors. Cosmetic only; the UI
// uses it for span highlighting, scoring never looks at it.
var colorGuide = map[string]string{
	// Identity
	"PERSON": "#FF7D63",
	"NRP":    "#ADDFFF",

	// Contact
	"PHONE_NUMBER":  "#229954",
	"EMAIL_ADDRESS": "#8E44AD",
	"URL":           "#F6358A",
	"IP_ADDRESS":    "#E67E22",

	// Location
	"LOCATION": "#F1C40F",

	// Time
	"DATE_TIME": "#F67280",

	// Financial
	"CREDIT_CARD":    "#1569C7",
	"IBAN_CODE":      "#1589FF",
	"IN_PAN":         "#14A3C7",
	"US_BANK_NUMBER": "#6698FF",
	"CRYPTO":         "#82CAFF",
	"US_ITIN":        "#AFDCEC",

	// Government IDs
	"IN_AADHAAR":  "#34A56F",
	"IN_PASSPORT": "#617C58",
	"AU_ABN":      "#3A5F0B",
	"AU_ACN":      "#228B22",
	"SG_NRIC_FIN": "#355E3B",
	"AU_TFN":      "#8A9A5B",
	"UK_NINO":     "#3EA055",
	"US_SSN":      "#2980B9",
	"US_PASSPORT": "#85BB65",
	"IN_VOTER":    "#77DD77",

	// Medical
	"UK_NHS":          "#872657",
	"AU_MEDICARE":     "#7F525D",
	"MEDICAL_LICENSE": "#550A35",

	// Vehicle
	"IN_VEHICLE_REGISTRATION": "#FFBF00",
	"US_DRIVER_LICENSE":       "#F9DB24",

	// Education
	"EDUCATION_LEVEL": "#9B59B6",
	"SCHOOL_NAME":     "#8E44AD",

	// Employment
	"OCCUPATION": "#3498DB",
	"EMPLOYER":   "#2980B9",

	// Relationships
	"RELATIONSHIP":  "#E74C3C",
	"FAMILY_MEMBER": "#C0392B",

	// Age
	"AGE":       "#1ABC9C",
	"AGE_GROUP": "#16A085",

	// Health
	"HEALTH_CONDITION": "#E91E63",
	"MEDICAL_TERM":     "#C2185B",
}

// ColorFor resolves the display color for an entity type.
func ColorFor(entityType string) string {
	if c, ok := colorGuide[entityType]; ok {
		return c
	}
	return DefaultColor
}
