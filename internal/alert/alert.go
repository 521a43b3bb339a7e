// Package alert delivers disclosure alerts out of band. When a
// conversation's identifiability score crosses a configured threshold,
// an event is queued and shipped to the configured sinks without ever
// blocking the message path.
package alert

import (
	"time"
)

// Event is one threshold crossing. It carries aggregate numbers and
// category keys only; message content and entity values stay out of the
// alert path entirely.
type Event struct {
	SessionID     string    `json:"session_id"`
	Score         int       `json:"score"`
	PreviousScore int       `json:"previous_score"`
	Threshold     int       `json:"threshold"`
	TotalEntities int       `json:"total_entities"`
	Categories    []string  `json:"categories,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Crossed returns the thresholds passed when the score moved from prev
// to cur. Thresholds fire on the way up only; a reset back below does
// not alert.
func Crossed(prev, cur int, thresholds []int) []int {
	if cur <= prev {
		return nil
	}
	var out []int
	for _, t := range thresholds {
		if prev < t && cur >= t {
			out = append(out, t)
		}
	}
	return out
}
