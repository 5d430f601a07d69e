package batch

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Report collects the per-subject results of one extraction run.
type Report struct {
	RunID    string
	Config   Config
	Started  time.Time
	Finished time.Time
	Results  []Result
}

// NewReport starts an empty report with a fresh run id.
func NewReport(cfg Config) *Report {
	return &Report{
		RunID:   uuid.NewString(),
		Config:  cfg,
		Started: time.Now().UTC(),
	}
}

// Add appends one subject's result.
func (r *Report) Add(res Result) {
	r.Results = append(r.Results, res)
}

// Finish stamps the end of the run.
func (r *Report) Finish() {
	r.Finished = time.Now().UTC()
}

// Counts returns the number of results per outcome kind.
func (r *Report) Counts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, res := range r.Results {
		counts[res.Kind]++
	}
	return counts
}

// Summary renders a one-line digest for end-of-run logging.
func (r *Report) Summary() string {
	c := r.Counts()
	return fmt.Sprintf("run %s: %d subjects, ok=%d insufficient_signal=%d insufficient_points=%d dataset_access=%d",
		r.RunID, len(r.Results),
		c[KindOK], c[KindInsufficientSignal], c[KindInsufficientPoints], c[KindDatasetAccess])
}
