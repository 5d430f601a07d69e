// Package sleeplab reads and writes sleeplab-format datasets: a directory
// tree of <dataset>/<series>/<subject>/<array>/ where every array directory
// holds an attributes.json sidecar and a data.npy payload.
package sleeplab

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrArrayNotFound marks a sample array key missing from a subject.
var ErrArrayNotFound = errors.New("sample array not found")

// Subject is one recording session within a series.
type Subject struct {
	ID  string
	Dir string
}

// Series groups the subjects of one recording series.
type Series struct {
	Name     string
	Dir      string
	Subjects []Subject
}

// Dataset is the root of a sleeplab-format tree.
type Dataset struct {
	Name   string
	Dir    string
	Series []Series
}

// ReadDataset enumerates the series and subjects of the dataset rooted at
// dir. It fails only when the root itself cannot be read; empty series are
// allowed and handled downstream.
func ReadDataset(dir string) (*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", dir, err)
	}

	ds := &Dataset{Name: filepath.Base(dir), Dir: dir}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		series := Series{Name: e.Name(), Dir: filepath.Join(dir, e.Name())}
		subjEntries, err := os.ReadDir(series.Dir)
		if err != nil {
			return nil, fmt.Errorf("open series %s: %w", series.Name, err)
		}
		for _, se := range subjEntries {
			if !se.IsDir() || strings.HasPrefix(se.Name(), ".") {
				continue
			}
			series.Subjects = append(series.Subjects, Subject{
				ID:  se.Name(),
				Dir: filepath.Join(series.Dir, se.Name()),
			})
		}
		ds.Series = append(ds.Series, series)
	}
	return ds, nil
}

// SampleArray loads the named array of the subject. A missing array
// directory reports ErrArrayNotFound; a present but unreadable array reports
// the underlying error.
func (s Subject) SampleArray(key string) (*SampleArray, error) {
	dir := filepath.Join(s.Dir, key)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("subject %s key %s: %w", s.ID, key, ErrArrayNotFound)
		}
		return nil, fmt.Errorf("subject %s key %s: %w", s.ID, key, err)
	}
	arr, err := LoadSampleArray(dir)
	if err != nil {
		return nil, fmt.Errorf("subject %s key %s: %w", s.ID, key, err)
	}
	return arr, nil
}

// ArrayNames lists the sample arrays present for the subject.
func (s Subject) ArrayNames() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("open subject %s: %w", s.ID, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
