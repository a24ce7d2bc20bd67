package history

import (
	"time"

	"nathanbeddoewebdev/vitalmetrics/internal/vitals"
)

// Entry is one page row of a recorded snapshot.
type Entry struct {
	ID           int64               `json:"id" yaml:"id"`
	FetchedAt    time.Time           `json:"fetched_at" yaml:"fetched_at"`
	Page         string              `json:"page" yaml:"page"`
	LCP          float64             `json:"lcp" yaml:"lcp"`
	INP          float64             `json:"inp" yaml:"inp"`
	CLS          float64             `json:"cls" yaml:"cls"`
	Status       vitals.Status       `json:"status" yaml:"status"`
	StatusSource vitals.StatusSource `json:"status_source" yaml:"status_source"`
}
