package entity

// LegacyBackup mirrors the JSON layout of the pre-database word file. It is
// consumed once by the migration path and produced by the export command so
// the two round-trip.
type LegacyBackup struct {
	Words        []LegacyWord `json:"words"`
	CurrentIndex int          `json:"current_index"`
}

// LegacyWord is one entry of a legacy backup. Scheduling fields are optional;
// missing ones fall back to the defaults of a new word, and date strings are
// parsed leniently (unparsable next_review becomes "now", unparsable
// last_review becomes unset).
type LegacyWord struct {
	Word        string   `json:"word"`
	Meaning     string   `json:"meaning"`
	ReviewCount *int32   `json:"review_count,omitempty"`
	EaseFactor  *float64 `json:"ease_factor,omitempty"`
	Interval    *int32   `json:"interval,omitempty"`
	NextReview  string   `json:"next_review,omitempty"`
	Mastered    *bool    `json:"mastered,omitempty"`
	LastReview  string   `json:"last_review,omitempty"`
}
