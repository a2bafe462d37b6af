package metrics

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot holds the records collected in one measurement pass.
type Snapshot struct {
	ID      uuid.UUID
	Host    string
	TakenAt time.Time
	Records []*Record
}

// NewSnapshot stamps records with a fresh pass id and the current time.
func NewSnapshot(host string, records []*Record) *Snapshot {
	return &Snapshot{
		ID:      uuid.New(),
		Host:    host,
		TakenAt: time.Now(),
		Records: records,
	}
}

// Columns returns the canonical column order, taken from the first record.
func (s *Snapshot) Columns() []string {
	if s == nil || len(s.Records) == 0 {
		return nil
	}
	return s.Records[0].Names()
}

// Metrics returns the metric descriptors of the canonical columns.
func (s *Snapshot) Metrics() []Metric {
	cols := s.Columns()
	out := make([]Metric, 0, len(cols))
	for _, c := range cols {
		if m, ok := s.Records[0].Get(c); ok {
			out = append(out, m.Metric)
		}
	}
	return out
}
