// Command ibi-plot renders an interpolated IBI sample array of one subject
// as an interactive HTML chart, with an optional static PNG.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/somnolab/prv.report/internal/sleeplab"
	"github.com/somnolab/prv.report/internal/units"
)

func main() {
	dsDir := flag.String("ds-dir", "", "sleeplab-format dataset directory path (required)")
	seriesName := flag.String("series", "", "series name (required)")
	subjectID := flag.String("subject", "", "subject id (required)")
	arrayName := flag.String("array", "", "IBI sample array name, e.g. Pleth_ibi_5_Hz (required)")
	unit := flag.String("unit", units.Milliseconds, "plot unit: ms or bpm")
	htmlOut := flag.String("out", "", "output HTML path (default <array>.html)")
	pngOut := flag.String("png", "", "optional output PNG path")
	flag.Parse()

	if *dsDir == "" || *seriesName == "" || *subjectID == "" || *arrayName == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *unit != units.Milliseconds && *unit != units.BPM {
		log.Fatalf("unsupported plot unit %q (valid: ms, bpm)", *unit)
	}

	arrDir := filepath.Join(*dsDir, *seriesName, *subjectID, *arrayName)
	arr, err := sleeplab.LoadSampleArray(arrDir)
	if err != nil {
		log.Fatalf("load array: %v", err)
	}
	rate, err := arr.Attributes.Rate()
	if err != nil {
		log.Fatalf("array %s is not uniformly sampled: %v", *arrayName, err)
	}

	// stored values are ms; convert through seconds to the requested unit
	xs := make([]float64, len(arr.Values))
	ys := make([]float64, len(arr.Values))
	for i, v := range arr.Values {
		xs[i] = float64(i) / rate
		ys[i] = units.ConvertInterval(v/1000, *unit)
	}

	out := *htmlOut
	if out == "" {
		out = *arrayName + ".html"
	}
	if err := renderHTML(out, *subjectID, *arrayName, *unit, xs, ys); err != nil {
		log.Fatalf("render HTML: %v", err)
	}
	log.Printf("wrote %s", out)

	if *pngOut != "" {
		if err := renderPNG(*pngOut, *subjectID, *unit, xs, ys); err != nil {
			log.Fatalf("render PNG: %v", err)
		}
		log.Printf("wrote %s", *pngOut)
	}
}

func renderHTML(path, subject, array, unit string, xs, ys []float64) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "IBI " + subject, Width: "1200px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Interpolated IBI", Subtitle: fmt.Sprintf("subject=%s array=%s", subject, array)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "IBI (" + unit + ")"}),
	)

	x := make([]string, len(xs))
	data := make([]opts.LineData, len(ys))
	for i := range xs {
		x[i] = fmt.Sprintf("%.2f", xs[i])
		data[i] = opts.LineData{Value: ys[i]}
	}
	line.SetXAxis(x).AddSeries(array, data)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return line.Render(f)
}

func renderPNG(path, subject, unit string, xs, ys []float64) error {
	p := plot.New()
	p.Title.Text = "Interpolated IBI: " + subject
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "IBI (" + unit + ")"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	l.Width = vg.Points(1)
	p.Add(l)

	return p.Save(14*vg.Inch, 6*vg.Inch, path)
}
