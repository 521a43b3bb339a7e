package pii

import (
	"errors"
	"fmt"

	"github.com/theo-privacy/theo/internal/detect"
)

// DefaultConfidenceThreshold is applied when a caller does not configure
// its own. Detections below it are unlikely to really be PII.
const DefaultConfidenceThreshold = 0.4

// ErrInvalidOffsets reports a detection whose span does not fit the
// analyzed text. This is a contract violation by the detector and must
// surface instead of silently truncating.
var ErrInvalidOffsets = errors.New("pii: detection offsets out of range")

// Entity is one detected PII span that survived the confidence filter.
// Immutable once created; owned by the session that produced it.
type Entity struct {
	Text         string  `json:"text"`
	EntityType   string  `json:"entity_type"`
	Confidence   float64 `json:"score"`
	Start        int     `json:"start"`
	End          int     `json:"end"`
	Color        string  `json:"color"`
	MessageIndex int     `json:"message_index"`
}

// Filter keeps detections with confidence at or above threshold.
// The threshold is taken as-is; range checking is the caller's job.
func Filter(dets []detect.Detection, threshold float64) []detect.Detection {
	if len(dets) == 0 {
		return nil
	}
	out := make([]detect.Detection, 0, len(dets))
	for _, d := range dets {
		if d.Confidence >= threshold {
			out = append(out, d)
		}
	}
	return out
}

// Normalize converts a raw detection into an Entity, extracting the span
// from the source text and stamping the message index.
func Normalize(text string, det detect.Detection, messageIndex int) (Entity, error) {
	if det.Start < 0 || det.End < det.Start || det.End > len(text) {
		return Entity{}, fmt.Errorf("%w: [%d:%d) in text of length %d", ErrInvalidOffsets, det.Start, det.End, len(text))
	}
	return Entity{
		Text:         text[det.Start:det.End],
		EntityType:   det.EntityType,
		Confidence:   det.Confidence,
		Start:        det.Start,
		End:          det.End,
		Color:        ColorFor(det.EntityType),
		MessageIndex: messageIndex,
	}, nil
}
