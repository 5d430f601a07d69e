package sleeplab

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ArrayAttributes mirrors the attributes.json sidecar of a sample array.
// Uniformly sampled arrays carry SamplingRate; unevenly sampled annotation
// arrays (peak times) carry SamplingInterval = -1 instead.
type ArrayAttributes struct {
	Name             string   `json:"name"`
	StartTS          string   `json:"start_ts,omitempty"`
	SamplingRate     *float64 `json:"sampling_rate,omitempty"`
	SamplingInterval *float64 `json:"sampling_interval,omitempty"`
	Unit             string   `json:"unit,omitempty"`
}

// Rate returns the sampling rate in Hz, derived from SamplingInterval when
// only that is present. Unevenly sampled arrays have no rate.
func (a ArrayAttributes) Rate() (float64, error) {
	if a.SamplingRate != nil && *a.SamplingRate > 0 {
		return *a.SamplingRate, nil
	}
	if a.SamplingInterval != nil && *a.SamplingInterval > 0 {
		return 1 / *a.SamplingInterval, nil
	}
	return 0, fmt.Errorf("array %s: no positive sampling rate or interval", a.Name)
}

// SampleArray is one named signal or annotation array of a subject.
type SampleArray struct {
	Attributes ArrayAttributes
	Values     []float64
}

const (
	attributesFile = "attributes.json"
	dataFile       = "data.npy"
)

// LoadSampleArray reads the attributes.json and data.npy pair from an array
// directory.
func LoadSampleArray(dir string) (*SampleArray, error) {
	raw, err := os.ReadFile(filepath.Join(dir, attributesFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", attributesFile, err)
	}
	var attrs ArrayAttributes
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", attributesFile, err)
	}

	f, err := os.Open(filepath.Join(dir, dataFile))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dataFile, err)
	}
	defer f.Close()

	values, err := ReadNPY(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dataFile, err)
	}
	return &SampleArray{Attributes: attrs, Values: values}, nil
}

// WriteSampleArray persists an array under subjectDir/<attrs.Name>/,
// creating the directory as needed. Rerunning for the same array overwrites
// only that array's files.
func WriteSampleArray(subjectDir string, attrs ArrayAttributes, values []float64, dtype DType) error {
	if attrs.Name == "" {
		return fmt.Errorf("array attributes must carry a name")
	}
	dir := filepath.Join(subjectDir, attrs.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create array dir: %w", err)
	}

	raw, err := json.MarshalIndent(attrs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", attributesFile, err)
	}
	if err := os.WriteFile(filepath.Join(dir, attributesFile), raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", attributesFile, err)
	}

	f, err := os.Create(filepath.Join(dir, dataFile))
	if err != nil {
		return fmt.Errorf("create %s: %w", dataFile, err)
	}
	defer f.Close()

	if err := WriteNPY(f, values, dtype); err != nil {
		return fmt.Errorf("write %s: %w", dataFile, err)
	}
	return f.Close()
}
