package sleeplab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestArray(t *testing.T, subjectDir, name string, rate float64, values []float64) {
	t.Helper()
	attrs := ArrayAttributes{Name: name, SamplingRate: &rate, Unit: "mV"}
	require.NoError(t, WriteSampleArray(subjectDir, attrs, values, Float64))
}

func TestReadDataset(t *testing.T) {
	root := t.TempDir()
	writeTestArray(t, filepath.Join(root, "night1", "subj-01"), "Pleth", 64, []float64{1, 2, 3})
	writeTestArray(t, filepath.Join(root, "night1", "subj-02"), "Pleth", 64, []float64{4, 5})
	writeTestArray(t, filepath.Join(root, "night2", "subj-03"), "Pleth", 128, []float64{6})
	// hidden entries are skipped
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".cache"), 0o755))

	ds, err := ReadDataset(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(root), ds.Name)
	require.Len(t, ds.Series, 2)
	assert.Equal(t, "night1", ds.Series[0].Name)
	assert.Len(t, ds.Series[0].Subjects, 2)
	assert.Len(t, ds.Series[1].Subjects, 1)
}

func TestReadDatasetMissingRoot(t *testing.T) {
	_, err := ReadDataset(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestSubjectSampleArray(t *testing.T) {
	root := t.TempDir()
	subjDir := filepath.Join(root, "night1", "subj-01")
	writeTestArray(t, subjDir, "Pleth", 64, []float64{0.5, 1.5, -0.5})

	ds, err := ReadDataset(root)
	require.NoError(t, err)
	subj := ds.Series[0].Subjects[0]

	arr, err := subj.SampleArray("Pleth")
	require.NoError(t, err)
	assert.Equal(t, "Pleth", arr.Attributes.Name)
	assert.Equal(t, []float64{0.5, 1.5, -0.5}, arr.Values)

	rate, err := arr.Attributes.Rate()
	require.NoError(t, err)
	assert.Equal(t, 64.0, rate)

	_, err = subj.SampleArray("SpO2")
	assert.ErrorIs(t, err, ErrArrayNotFound)

	names, err := subj.ArrayNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Pleth"}, names)
}

func TestWriteSampleArrayOverwrites(t *testing.T) {
	subjDir := filepath.Join(t.TempDir(), "night1", "subj-01")
	writeTestArray(t, subjDir, "Pleth", 64, []float64{1, 2, 3})
	writeTestArray(t, subjDir, "Pleth", 64, []float64{9, 8})

	arr, err := LoadSampleArray(filepath.Join(subjDir, "Pleth"))
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 8}, arr.Values)
}

func TestArrayAttributesRate(t *testing.T) {
	rate := 64.0
	interval := 0.25
	uneven := -1.0

	tests := []struct {
		name    string
		attrs   ArrayAttributes
		want    float64
		wantErr bool
	}{
		{"explicit rate", ArrayAttributes{Name: "a", SamplingRate: &rate}, 64, false},
		{"from interval", ArrayAttributes{Name: "a", SamplingInterval: &interval}, 4, false},
		{"uneven", ArrayAttributes{Name: "a", SamplingInterval: &uneven}, 0, true},
		{"neither", ArrayAttributes{Name: "a"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.attrs.Rate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
