// Command edf-import converts an EDF/EDF+ polysomnography recording into
// sleeplab-format sample arrays for one subject, so extract-ibis can run on
// recordings exported straight from acquisition systems.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/OpenPSG/edf"

	"github.com/somnolab/prv.report/internal/sleeplab"
)

func main() {
	edfPath := flag.String("edf", "", "EDF recording to import (required)")
	dsDir := flag.String("ds-dir", "", "sleeplab-format dataset directory to write into (required)")
	seriesName := flag.String("series", "default", "series name within the dataset")
	subjectID := flag.String("subject", "", "subject id; defaults to the EDF file base name")
	signal := flag.String("signal", "", "import only the signal with this label (default: all)")
	flag.Parse()

	if *edfPath == "" || *dsDir == "" {
		flag.Usage()
		os.Exit(2)
	}
	subject := *subjectID
	if subject == "" {
		subject = strings.TrimSuffix(filepath.Base(*edfPath), filepath.Ext(*edfPath))
	}

	f, err := os.Open(*edfPath)
	if err != nil {
		log.Fatalf("open EDF: %v", err)
	}
	defer f.Close()

	info, err := readLayout(f)
	if err != nil {
		log.Fatalf("read EDF header: %v", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		log.Fatalf("rewind EDF: %v", err)
	}
	r, err := edf.Open(f)
	if err != nil {
		log.Fatalf("parse EDF header: %v", err)
	}

	subjectDir := filepath.Join(*dsDir, *seriesName, subject)
	imported := 0
	for i, sig := range info.signals {
		if *signal != "" && sig.label != *signal {
			continue
		}
		// EDF+ annotation channels carry no sampled data
		if strings.EqualFold(sig.label, "EDF Annotations") {
			continue
		}
		values, err := readSignal(r, i, info.records*sig.samplesPerRecord)
		if err != nil {
			log.Fatalf("read signal %q: %v", sig.label, err)
		}
		rate := float64(sig.samplesPerRecord) / info.recordSeconds
		attrs := sleeplab.ArrayAttributes{
			Name:         sanitize(sig.label),
			StartTS:      info.start.Format(time.RFC3339),
			SamplingRate: &rate,
			Unit:         sig.unit,
		}
		if err := sleeplab.WriteSampleArray(subjectDir, attrs, values, sleeplab.Float32); err != nil {
			log.Fatalf("write array %q: %v", attrs.Name, err)
		}
		log.Printf("imported %s: %d samples at %g Hz", attrs.Name, len(values), rate)
		imported++
	}
	if imported == 0 {
		log.Fatalf("no matching signals in %s", *edfPath)
	}
	log.Printf("imported %d signals into %s", imported, subjectDir)
}

// layout holds the header fields needed to name and rate the arrays. The edf
// package decodes samples but keeps its parsed header private, so the
// fixed-format fields are read here directly.
type layout struct {
	start         time.Time
	records       int
	recordSeconds float64
	signals       []signalInfo
}

type signalInfo struct {
	label            string
	unit             string
	samplesPerRecord int
}

func readLayout(r io.Reader) (*layout, error) {
	fixed := make([]byte, 256)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, fmt.Errorf("read fixed header: %w", err)
	}
	field := func(b []byte) string { return strings.TrimSpace(string(b)) }

	start, err := time.Parse("02.01.06 15.04.05", field(fixed[168:176])+" "+field(fixed[176:184]))
	if err != nil {
		return nil, fmt.Errorf("parse start time: %w", err)
	}
	records, err := strconv.Atoi(field(fixed[236:244]))
	if err != nil {
		return nil, fmt.Errorf("parse record count: %w", err)
	}
	recordSeconds, err := strconv.ParseFloat(field(fixed[244:252]), 64)
	if err != nil || recordSeconds <= 0 {
		return nil, fmt.Errorf("parse record duration %q", field(fixed[244:252]))
	}
	ns, err := strconv.Atoi(field(fixed[252:256]))
	if err != nil || ns <= 0 {
		return nil, fmt.Errorf("parse signal count %q", field(fixed[252:256]))
	}

	// variable header: ns*16 labels, ns*80 transducers, ns*8 dimensions,
	// ns*8 phys min, ns*8 phys max, ns*8 dig min, ns*8 dig max,
	// ns*80 prefiltering, ns*8 samples per record
	varHdr := make([]byte, ns*256)
	if _, err := io.ReadFull(r, varHdr); err != nil {
		return nil, fmt.Errorf("read signal headers: %w", err)
	}

	l := &layout{start: start, records: records, recordSeconds: recordSeconds}
	sprOff := ns * (16 + 80 + 8 + 8 + 8 + 8 + 8 + 80)
	for i := 0; i < ns; i++ {
		spr, err := strconv.Atoi(field(varHdr[sprOff+i*8 : sprOff+(i+1)*8]))
		if err != nil {
			return nil, fmt.Errorf("parse samples-per-record for signal %d: %w", i, err)
		}
		l.signals = append(l.signals, signalInfo{
			label:            field(varHdr[i*16 : (i+1)*16]),
			unit:             field(varHdr[ns*96+i*8 : ns*96+(i+1)*8]),
			samplesPerRecord: spr,
		})
	}
	return l, nil
}

// readSignal drains one EDF signal into memory using the edf package's
// calibrated reader.
func readSignal(r *edf.Reader, index, total int) ([]float64, error) {
	sr, err := r.Signal(index)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, total)
	buf := make([]float64, 4096)
	for {
		n, err := sr.Read(buf)
		values = append(values, buf[:n]...)
		if err == io.EOF {
			return values, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// sanitize turns an EDF signal label into a directory-safe array name.
func sanitize(label string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, label)
}
