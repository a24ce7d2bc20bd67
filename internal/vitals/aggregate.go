package vitals

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/vitalmetrics/internal/domain"
)

// RowError reports the page row that halted aggregation.
type RowError struct {
	Index int
	Page  string
	Err   error
}

func (e *RowError) Error() string {
	if e.Page == "" {
		return fmt.Sprintf("page row %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("page row %d (%s): %v", e.Index, e.Page, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Aggregate classifies pages and assembles a snapshot with the given
// summary cards. Input order is preserved for both collections. When
// filter is non-empty only rows whose page contains it (case-sensitive)
// are kept.
//
// The first invalid row stops aggregation and is returned as a *RowError;
// no default status is ever substituted.
func Aggregate(pages []PageMetric, cards []SummaryCard, filter string) (*Snapshot, error) {
	rows, err := ClassifyPages(pages)
	if err != nil {
		return nil, err
	}

	outCards := make([]SummaryCard, 0, len(cards))
	for i, c := range cards {
		if !c.Status.Valid() {
			return nil, fmt.Errorf("summary card %d (%s): %w: status %q", i, c.Title, domain.ErrInvalidPayload, c.Status)
		}
		if !c.Trend.Direction.Valid() {
			return nil, fmt.Errorf("summary card %d (%s): %w: trend direction %q", i, c.Title, domain.ErrInvalidPayload, c.Trend.Direction)
		}
		outCards = append(outCards, c)
	}

	return &Snapshot{
		SummaryCards: outCards,
		PageRows:     FilterRows(rows, filter),
		Filter:       filter,
	}, nil
}

// ClassifyPages turns raw samples into page rows, in order. Pages must be
// non-empty and unique.
func ClassifyPages(pages []PageMetric) ([]PageRow, error) {
	rows := make([]PageRow, 0, len(pages))
	seen := make(map[string]struct{}, len(pages))

	for i, p := range pages {
		if p.Page == "" {
			return nil, &RowError{Index: i, Err: fmt.Errorf("%w: empty page", domain.ErrInvalidPayload)}
		}
		if _, dup := seen[p.Page]; dup {
			return nil, &RowError{Index: i, Page: p.Page, Err: fmt.Errorf("%w: duplicate page", domain.ErrInvalidPayload)}
		}
		seen[p.Page] = struct{}{}

		row, err := classifyRow(p)
		if err != nil {
			return nil, &RowError{Index: i, Page: p.Page, Err: err}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func classifyRow(p PageMetric) (PageRow, error) {
	var cells CellStatus
	var err error
	if cells.LCP, err = Classify(LCP, p.LCP); err != nil {
		return PageRow{}, err
	}
	if cells.INP, err = Classify(INP, p.INP); err != nil {
		return PageRow{}, err
	}
	if cells.CLS, err = Classify(CLS, p.CLS); err != nil {
		return PageRow{}, err
	}

	row := PageRow{
		Page:  p.Page,
		LCP:   p.LCP,
		INP:   p.INP,
		CLS:   p.CLS,
		Cells: cells,
	}

	switch {
	case p.Status == "":
		row.Status = Worst(cells.LCP, cells.INP, cells.CLS)
		row.StatusSource = StatusDerived
	case p.Status.Valid():
		row.Status = p.Status
		row.StatusSource = StatusFromSource
	default:
		return PageRow{}, fmt.Errorf("%w: status %q", domain.ErrInvalidPayload, p.Status)
	}

	return row, nil
}

// FilterRows returns the rows whose page contains term. An empty term
// returns a copy of all rows.
func FilterRows(rows []PageRow, term string) []PageRow {
	out := make([]PageRow, 0, len(rows))
	for _, r := range rows {
		if term == "" || strings.Contains(r.Page, term) {
			out = append(out, r)
		}
	}
	return out
}
