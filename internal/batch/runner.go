package batch

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/somnolab/prv.report/internal/monitoring"
	"github.com/somnolab/prv.report/internal/pulse"
	"github.com/somnolab/prv.report/internal/sleeplab"
	"github.com/somnolab/prv.report/internal/units"
)

// Config carries the dataset-wide settings of one extraction run. It is
// passed explicitly into every per-subject invocation; there is no
// process-wide mutable state.
type Config struct {
	DatasetDir string
	PPGKey     string
	FsInterp   float64
	// SaveDir, when set, mirrors the dataset tree there instead of writing
	// next to the source arrays.
	SaveDir string
	Method  string

	// MinIBI and MaxIBI bound plausible beat intervals in seconds. Both
	// zero disables the filter.
	MinIBI, MaxIBI float64

	Detector pulse.DetectorOptions
}

// Validate rejects configurations that must stop the run before any subject
// is processed.
func (c Config) Validate() error {
	if c.DatasetDir == "" {
		return errors.New("dataset directory is required")
	}
	if c.PPGKey == "" {
		return errors.New("ppg key is required")
	}
	if c.FsInterp <= 0 {
		return fmt.Errorf("fs-interp must be positive, got %g", c.FsInterp)
	}
	if c.Method != "" && !pulse.ValidMethod(c.Method) {
		return fmt.Errorf("unknown interpolation method %q (valid: %v)", c.Method, pulse.ValidMethods)
	}
	if c.MinIBI < 0 || c.MaxIBI < 0 {
		return errors.New("ibi bounds must be non-negative")
	}
	if c.MinIBI > 0 && c.MaxIBI > 0 && c.MinIBI >= c.MaxIBI {
		return fmt.Errorf("min-ibi %g must be below max-ibi %g", c.MinIBI, c.MaxIBI)
	}
	return nil
}

// Runner executes one extraction run over a dataset.
type Runner struct {
	cfg Config
}

// NewRunner validates cfg and returns a runner for it.
func NewRunner(cfg Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg}, nil
}

// Run processes every subject of every series sequentially. Per-subject
// failures are captured in the report and never abort the loop; Run itself
// fails only when the dataset root cannot be opened.
func (r *Runner) Run() (*Report, error) {
	ds, err := sleeplab.ReadDataset(r.cfg.DatasetDir)
	if err != nil {
		return nil, err
	}

	report := NewReport(r.cfg)
	for _, series := range ds.Series {
		monitoring.Logf("extracting PPG peaks and IBIs for series %s (%d subjects)", series.Name, len(series.Subjects))
		for _, subj := range series.Subjects {
			res := r.processSubject(ds, series, subj)
			report.Add(res)
			if res.Err != nil {
				monitoring.Logf("subject %s: %s: %v", subj.ID, res.Kind, res.Err)
			}
		}
	}
	report.Finish()
	return report, nil
}

// processSubject runs the three pipeline stages for one subject and writes
// its outputs. All failures are folded into the returned Result.
func (r *Runner) processSubject(ds *sleeplab.Dataset, series sleeplab.Series, subj sleeplab.Subject) Result {
	res := Result{Series: series.Name, SubjectID: subj.ID}

	arr, err := subj.SampleArray(r.cfg.PPGKey)
	if err != nil {
		res.Kind, res.Err = KindDatasetAccess, err
		return res
	}
	fs, err := arr.Attributes.Rate()
	if err != nil {
		res.Kind, res.Err = KindDatasetAccess, err
		return res
	}

	w := pulse.Waveform{Values: arr.Values, SamplingRate: fs}
	peaks, err := pulse.DetectPeaks(w, r.cfg.Detector)
	if err != nil {
		res.Kind, res.Err = KindInsufficientSignal, err
		return res
	}
	res.Beats = len(peaks)

	outDir := r.outputSubjectDir(ds, series, subj)
	if err := r.writePeaks(outDir, arr.Attributes, peaks, fs); err != nil {
		res.Kind, res.Err = KindDatasetAccess, err
		return res
	}
	res.PeaksWritten = true

	raw := pulse.ComputeIBI(peaks, fs).FilterPlausible(r.cfg.MinIBI, r.cfg.MaxIBI)
	res.Summary = pulse.Summarize(raw)

	interp, err := pulse.Resample(raw, r.cfg.FsInterp, r.cfg.Method)
	if err != nil {
		if errors.Is(err, pulse.ErrInsufficientPoints) {
			res.Kind, res.Err = KindInsufficientPoints, err
		} else {
			res.Kind, res.Err = KindDatasetAccess, err
		}
		return res
	}

	if err := r.writeIBI(outDir, arr.Attributes, interp); err != nil {
		res.Kind, res.Err = KindDatasetAccess, err
		return res
	}
	res.IBIWritten = true
	res.Kind = KindOK
	return res
}

// outputSubjectDir places outputs next to the source subject, or mirrors the
// dataset tree under SaveDir when one is configured.
func (r *Runner) outputSubjectDir(ds *sleeplab.Dataset, series sleeplab.Series, subj sleeplab.Subject) string {
	if r.cfg.SaveDir == "" {
		return subj.Dir
	}
	return filepath.Join(r.cfg.SaveDir, ds.Name, series.Name, subj.ID)
}

// writePeaks persists peak times in milliseconds from recording start, with
// sampling_interval -1 marking uneven sampling.
func (r *Runner) writePeaks(outDir string, src sleeplab.ArrayAttributes, peaks []int, fs float64) error {
	times := make([]float64, len(peaks))
	for i, p := range peaks {
		times[i] = units.ConvertInterval(float64(p)/fs, units.Milliseconds)
	}
	uneven := -1.0
	attrs := sleeplab.ArrayAttributes{
		Name:             r.cfg.PPGKey + "_peaks",
		StartTS:          src.StartTS,
		SamplingInterval: &uneven,
		Unit:             units.Milliseconds,
	}
	return sleeplab.WriteSampleArray(outDir, attrs, times, sleeplab.Float64)
}

// writeIBI persists the interpolated interval series in milliseconds at the
// configured rate.
func (r *Runner) writeIBI(outDir string, src sleeplab.ArrayAttributes, interp pulse.Series) error {
	values := make([]float64, interp.Len())
	for i, iv := range interp.Intervals {
		values[i] = units.ConvertInterval(iv, units.Milliseconds)
	}
	fsInterp := r.cfg.FsInterp
	attrs := sleeplab.ArrayAttributes{
		Name:         fmt.Sprintf("%s_ibi_%d_Hz", r.cfg.PPGKey, int(fsInterp)),
		StartTS:      src.StartTS,
		SamplingRate: &fsInterp,
		Unit:         units.Milliseconds,
	}
	return sleeplab.WriteSampleArray(outDir, attrs, values, sleeplab.Float32)
}
