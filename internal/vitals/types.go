package vitals

import "time"

// PageMetric is one page's raw measurement as delivered by the data source.
// Status is the source's page-level rating and may be empty.
type PageMetric struct {
	Page   string  `json:"page" yaml:"page"`
	LCP    float64 `json:"lcp" yaml:"lcp"`
	INP    float64 `json:"inp" yaml:"inp"`
	CLS    float64 `json:"cls" yaml:"cls"`
	Status Status  `json:"status,omitempty" yaml:"status,omitempty"`
}

// Value returns the sample's value for m.
func (p PageMetric) Value(m Metric) float64 {
	switch m {
	case LCP:
		return p.LCP
	case INP:
		return p.INP
	default:
		return p.CLS
	}
}

// Direction is the direction of a summary card's trend.
type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// Valid reports whether d is a known trend direction.
func (d Direction) Valid() bool {
	switch d {
	case DirectionUp, DirectionDown, DirectionStable:
		return true
	}
	return false
}

// Icon returns the arrow shown next to the trend text.
func (d Direction) Icon() string {
	switch d {
	case DirectionUp:
		return "↑"
	case DirectionDown:
		return "↓"
	default:
		return "−"
	}
}

// Trend is a pre-formatted change indicator supplied by the data source.
type Trend struct {
	Direction Direction `json:"direction" yaml:"direction"`
	Value     string    `json:"value" yaml:"value"`
}

// SummaryCard is an aggregate display unit for one metric.
type SummaryCard struct {
	Title  string `json:"title" yaml:"title"`
	Value  string `json:"value" yaml:"value"`
	Unit   string `json:"unit,omitempty" yaml:"unit,omitempty"`
	Status Status `json:"status" yaml:"status"`
	Trend  Trend  `json:"trend" yaml:"trend"`
}

// StatusSource records where a row's overall status came from.
type StatusSource string

const (
	// StatusFromSource means the data source supplied the row status.
	StatusFromSource StatusSource = "source"
	// StatusDerived means the source omitted it and it was derived as the
	// worst of the cell statuses.
	StatusDerived StatusSource = "derived"
)

// CellStatus holds the locally classified status of each metric cell.
type CellStatus struct {
	LCP Status `json:"lcp" yaml:"lcp"`
	INP Status `json:"inp" yaml:"inp"`
	CLS Status `json:"cls" yaml:"cls"`
}

// Of returns the cell status for m.
func (c CellStatus) Of(m Metric) Status {
	switch m {
	case LCP:
		return c.LCP
	case INP:
		return c.INP
	default:
		return c.CLS
	}
}

// PageRow is a classified page sample. Cells are derived per metric for
// coloring; Status is the row badge and is deliberately not reconciled
// with Cells.
type PageRow struct {
	Page         string       `json:"page" yaml:"page"`
	LCP          float64      `json:"lcp" yaml:"lcp"`
	INP          float64      `json:"inp" yaml:"inp"`
	CLS          float64      `json:"cls" yaml:"cls"`
	Cells        CellStatus   `json:"cells" yaml:"cells"`
	Status       Status       `json:"status" yaml:"status"`
	StatusSource StatusSource `json:"status_source" yaml:"status_source"`
}

// Snapshot is one complete, internally consistent set of dashboard data.
type Snapshot struct {
	SummaryCards []SummaryCard `json:"summary_cards" yaml:"summary_cards"`
	PageRows     []PageRow     `json:"page_rows" yaml:"page_rows"`
	Filter       string        `json:"filter,omitempty" yaml:"filter,omitempty"`
	FetchedAt    time.Time     `json:"fetched_at" yaml:"fetched_at"`
}
