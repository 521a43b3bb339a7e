package detect

import "context"

// Detection is a single span flagged by a detector. Offsets are byte
// offsets into the analyzed text.
type Detection struct {
	EntityType string  `json:"entity_type"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"score"`
}

// Detector finds potentially identifying spans in raw text.
// Implementations make no guarantee about the order of detections.
type Detector interface {
	Analyze(ctx context.Context, text, language string) ([]Detection, error)
}

// EntityLister is implemented by detectors that can enumerate the
// entity-type vocabulary they recognize.
type EntityLister interface {
	SupportedEntities() []string
}
