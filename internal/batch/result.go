// Package batch runs the IBI extraction pipeline over every subject of a
// sleeplab-format dataset, isolating failures at the subject boundary and
// collecting the outcome of each subject into a run report.
package batch

import (
	"github.com/somnolab/prv.report/internal/pulse"
)

// Kind classifies the outcome of one subject's pipeline run.
type Kind string

const (
	// KindOK marks a subject with both outputs written.
	KindOK Kind = "ok"
	// KindInsufficientSignal marks a waveform the detector rejected; no
	// outputs are written.
	KindInsufficientSignal Kind = "insufficient_signal"
	// KindInsufficientPoints marks a subject with too few beats to
	// interpolate; the peak annotation is still written.
	KindInsufficientPoints Kind = "insufficient_points"
	// KindDatasetAccess marks a subject whose signal could not be read or
	// whose outputs could not be written.
	KindDatasetAccess Kind = "dataset_access"
)

// Result records the outcome of one subject.
type Result struct {
	Series    string
	SubjectID string
	Kind      Kind
	Err       error

	Beats        int
	Summary      pulse.Summary
	PeaksWritten bool
	IBIWritten   bool
}
