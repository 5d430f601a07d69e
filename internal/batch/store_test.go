package batch

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somnolab/prv.report/internal/pulse"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	muteLogs(t)
	store, err := OpenStore(filepath.Join(t.TempDir(), "report.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSaveReport(t *testing.T) {
	store := openTestStore(t)

	report := NewReport(Config{DatasetDir: "/data/ds", PPGKey: "Pleth", FsInterp: 5, Method: pulse.MethodLinear})
	report.Add(Result{
		Series:       "night1",
		SubjectID:    "subj-good",
		Kind:         KindOK,
		Beats:        120,
		Summary:      pulse.Summary{Beats: 119, MeanIBI: 0.82, SDNN: 0.04, RMSSD: 0.03},
		PeaksWritten: true,
		IBIWritten:   true,
	})
	// statistics for a failed subject are NaN and must land as NULL
	report.Add(Result{
		Series:    "night1",
		SubjectID: "subj-flat",
		Kind:      KindInsufficientSignal,
		Err:       errors.New("insufficient signal for peak detection"),
		Summary:   pulse.Summary{MeanIBI: math.NaN(), SDNN: math.NaN(), RMSSD: math.NaN()},
	})
	report.Finish()

	require.NoError(t, store.SaveReport(report))

	n, err := store.RunCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var results int
	require.NoError(t, store.db.QueryRow(
		`SELECT COUNT(*) FROM subject_results WHERE run_id = ?`, report.RunID).Scan(&results))
	assert.Equal(t, 2, results)

	var kind string
	var meanIBI *float64
	require.NoError(t, store.db.QueryRow(
		`SELECT kind, mean_ibi FROM subject_results WHERE run_id = ? AND subject_id = ?`,
		report.RunID, "subj-flat").Scan(&kind, &meanIBI))
	assert.Equal(t, string(KindInsufficientSignal), kind)
	assert.Nil(t, meanIBI)
}

func TestStoreMultipleRuns(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 3; i++ {
		report := NewReport(Config{DatasetDir: "/data/ds", PPGKey: "Pleth", FsInterp: 5})
		report.Finish()
		require.NoError(t, store.SaveReport(report))
	}

	n, err := store.RunCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestReportSummary(t *testing.T) {
	report := NewReport(Config{})
	report.Add(Result{Kind: KindOK})
	report.Add(Result{Kind: KindOK})
	report.Add(Result{Kind: KindInsufficientPoints})
	report.Finish()

	assert.Contains(t, report.Summary(), "3 subjects")
	assert.Contains(t, report.Summary(), "ok=2")
	assert.Contains(t, report.Summary(), "insufficient_points=1")
}
