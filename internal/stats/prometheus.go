package stats

import (
	"context"
	"fmt"
	"time"

	promapi "github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// MetricQuery is a PromQL expression template for one of the six tracked
// resources, evaluated as a range query and summed across all returned
// series per timestamp.
type MetricQuery struct {
	Resource string // matches handler.Resource string values
	Expr     string
}

// RangeQuerier performs Prometheus range queries against a local query
// endpoint, the external collaborator spec.md assumes for per-iteration
// time-series collection.
type RangeQuerier struct {
	api promv1.API
}

// NewRangeQuerier constructs a client against the given Prometheus base
// address (e.g. "http://localhost:9090").
func NewRangeQuerier(address string) (*RangeQuerier, error) {
	client, err := promapi.NewClient(promapi.Config{Address: address})
	if err != nil {
		return nil, fmt.Errorf("building prometheus client: %w", err)
	}
	return &RangeQuerier{api: promv1.NewAPI(client)}, nil
}

// CollectWindow evaluates expr as a 1-second-resolution range query over
// [start, start+duration], summing across series per timestamp, and
// returns the resulting array of length duration.Seconds()+1. A query
// that returns no series (e.g. an absent optional disk metric) yields an
// all-zero array rather than an error.
func (q *RangeQuerier) CollectWindow(ctx context.Context, expr string, start time.Time, duration time.Duration) ([]float64, error) {
	end := start.Add(duration)
	samples := int(duration.Seconds()) + 1

	r := promv1.Range{Start: start, End: end, Step: time.Second}
	value, warnings, err := q.api.QueryRange(ctx, expr, r)
	if err != nil {
		return nil, fmt.Errorf("range query %q: %w", expr, err)
	}
	_ = warnings

	out := make([]float64, samples)
	matrix, ok := value.(model.Matrix)
	if !ok {
		return out, nil
	}

	for _, series := range matrix {
		for _, point := range series.Values {
			idx := int(point.Timestamp.Time().Sub(start).Seconds())
			if idx < 0 || idx >= samples {
				continue
			}
			out[idx] += float64(point.Value)
		}
	}
	return out, nil
}
