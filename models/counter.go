package models

// SequenceCounter persists one identifier counter. Counters are the only
// state that cannot be rebuilt from the entities themselves, so they are
// stored as rows, never derived.
//
// Scope is "crf" or "sample"; together with the CRF type (CS/LS) and the
// two-digit year it names one monotonic sequence.
type SequenceCounter struct {
	Scope   string  `gorm:"primaryKey;size:10"`
	CRFType CRFType `gorm:"primaryKey;size:4"`
	Year    int     `gorm:"primaryKey"`
	Value   int     `gorm:"not null"`
}

func (SequenceCounter) TableName() string {
	return "sequence_counters"
}
