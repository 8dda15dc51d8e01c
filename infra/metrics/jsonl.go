package metrics

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	coremetrics "github.com/ethan-bns24/ECOSPEED-sub000/core/metrics"
)

// PlanQuery filters plan records. Zero fields match everything.
type PlanQuery struct {
	Scenario string
	Start    time.Time
	End      time.Time
}

// JSONLSink appends plan records to a JSON lines file.
type JSONLSink struct {
	path string
	mu   sync.Mutex
}

// NewJSONLSink creates the file if needed.
func NewJSONLSink(path string) (*JSONLSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	if cerr := f.Close(); cerr != nil {
		return nil, cerr
	}
	return &JSONLSink{path: path}, nil
}

// RecordPlan appends one line.
func (s *JSONLSink) RecordPlan(rec coremetrics.PlanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(rec)
}

// Query returns the stored records matching q in file order. Lines that do
// not decode are skipped.
func (s *JSONLSink) Query(ctx context.Context, q PlanQuery) ([]coremetrics.PlanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	var res []coremetrics.PlanRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var r coremetrics.PlanRecord
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			continue
		}
		if q.Scenario != "" && r.Scenario != q.Scenario {
			continue
		}
		if !q.Start.IsZero() && r.Time.Before(q.Start) {
			continue
		}
		if !q.End.IsZero() && r.Time.After(q.End) {
			continue
		}
		res = append(res, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
