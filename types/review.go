package types

// ReviewDateLayout is the stored review timestamp format: UTC, second precision, trailing Z.
const ReviewDateLayout = "2006-01-02T15:04:05Z"

// DefaultRating replaces any missing, unparsable or out-of-range rating.
const DefaultRating = 5

// Review is a persisted user review. Reviews are append-only.
type Review struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
	Date   string `json:"date"`
}
