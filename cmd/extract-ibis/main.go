// Command extract-ibis detects PPG peaks for every subject of a
// sleeplab-format dataset, derives inter-beat intervals, resamples them to a
// fixed rate, and writes both back as sample arrays.
//
// Per-subject failures are logged and counted but never abort the batch; the
// process exits non-zero only for invalid flags or an unreadable dataset.
package main

import (
	"flag"
	"log"

	"github.com/somnolab/prv.report/internal/batch"
	"github.com/somnolab/prv.report/internal/pulse"
)

func main() {
	dsDir := flag.String("ds-dir", "", "sleeplab-format dataset directory path (required)")
	ppgKey := flag.String("ppg-key", "Pleth", "name of the PPG sample array in the dataset")
	fsInterp := flag.Float64("fs-interp", 5.0, "sampling frequency of the interpolated IBI series (Hz)")
	saveDir := flag.String("savedir", "", "optional save root; by default results are written within the dataset")
	method := flag.String("method", pulse.MethodLinear, "interpolation method (linear or akima)")
	minIBI := flag.Float64("min-ibi", 0.3, "shortest plausible beat interval in seconds (0 with -max-ibi 0 disables filtering)")
	maxIBI := flag.Float64("max-ibi", 3.0, "longest plausible beat interval in seconds")
	reportDB := flag.String("report-db", "", "optional sqlite file to record the run report")
	flag.Parse()

	cfg := batch.Config{
		DatasetDir: *dsDir,
		PPGKey:     *ppgKey,
		FsInterp:   *fsInterp,
		SaveDir:    *saveDir,
		Method:     *method,
		MinIBI:     *minIBI,
		MaxIBI:     *maxIBI,
	}

	runner, err := batch.NewRunner(cfg)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	log.Printf("reading dataset from %s...", *dsDir)
	report, err := runner.Run()
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}

	if *reportDB != "" {
		store, err := batch.OpenStore(*reportDB)
		if err != nil {
			log.Fatalf("open report db: %v", err)
		}
		defer store.Close()
		if err := store.SaveReport(report); err != nil {
			log.Fatalf("save report: %v", err)
		}
	}

	log.Print(report.Summary())
}
