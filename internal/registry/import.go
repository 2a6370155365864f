package registry

import (
	"context"
	"errors"

	"github.com/rcliao/person-registry/internal/model"
)

// ImportResult is the outcome of one imported row.
type ImportResult struct {
	Row    int               `json:"row"`
	ID     int64             `json:"id,omitempty"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ImportSummary reports what Import did.
type ImportSummary struct {
	Imported int            `json:"imported"`
	Rejected int            `json:"rejected"`
	Results  []ImportResult `json:"results"`
}

// Import creates rows one at a time. Rows failing validation are reported and
// skipped; a storage failure aborts the import and returns what was done so far.
func (s *Service) Import(ctx context.Context, rows []model.PersonInput) (*ImportSummary, error) {
	sum := &ImportSummary{Results: make([]ImportResult, 0, len(rows))}
	for i, in := range rows {
		res := ImportResult{Row: i + 1}

		p, err := s.Create(ctx, in)
		var verr *model.ValidationError
		switch {
		case err == nil:
			res.ID = p.ID
			sum.Imported++
		case errors.As(err, &verr):
			res.Error = verr.Error()
			res.Fields = verr.Fields
			sum.Rejected++
		default:
			return sum, err
		}
		sum.Results = append(sum.Results, res)
	}
	return sum, nil
}
