package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	clmath "github.com/drakos74/free-cluster/internal/math"
	"github.com/drakos74/free-cluster/internal/model"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
)

// PlotHeight is the number of rows of the sweep plot.
const PlotHeight = 10

// Options controls the detail of the text output.
type Options struct {
	Members    bool
	Prototypes bool
}

// Print writes the text report.
func (r *Report) Print(w io.Writer, options Options) {
	fmt.Fprintf(w, "run %s : %s (converged=%v, iterations=%d)\n", r.Run, r.Algorithm, r.Converged, r.Iterations)
	Clusters(w, r.Clusters, options)
	Scores(w, r.Score)
	if len(r.Sweep) > 0 {
		Scores(w, r.Sweep...)
		fmt.Fprintln(w, Plot(r.Sweep))
	}
}

// Clusters renders the clusters as a table.
func Clusters(w io.Writer, snapshots []model.Snapshot, options Options) {
	table := tablewriter.NewWriter(w)
	header := []string{"Cluster", "Size", "Quantization", "StDev", "Max"}
	if options.Members {
		header = append(header, "Members")
	}
	if options.Prototypes {
		header = append(header, "Prototype")
	}
	table.SetHeader(header)
	for _, s := range snapshots {
		row := []string{
			s.Position.String(),
			strconv.Itoa(len(s.Members)),
			clmath.Format(s.Quantization.Mean),
			clmath.Format(s.Quantization.StDev),
			clmath.Format(s.Quantization.Max),
		}
		if options.Members {
			row = append(row, joinInts(s.Members))
		}
		if options.Prototypes {
			row = append(row, joinFloats(s.Prototype))
		}
		table.Append(row)
	}
	table.Render()
}

// Scores renders the scores as a table.
func Scores(w io.Writer, scores ...Score) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Threshold", "Prefetches", "Hits", "Requests", "Hitrate", "Accuracy", "Hitrate+Accuracy"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, s := range scores {
		table.Append([]string{
			clmath.Format(s.Threshold),
			strconv.Itoa(s.Prefetches),
			strconv.Itoa(s.Hits),
			strconv.Itoa(s.Requests),
			format(s.Hitrate),
			format(s.Accuracy),
			clmath.Format(sum(s)),
		})
	}
	table.Render()
}

// Plot draws hitrate and accuracy over the sweep thresholds.
// Undefined ratios are drawn as zero.
func Plot(scores []Score) string {
	hitrate := make([]float64, len(scores))
	accuracy := make([]float64, len(scores))
	for i, s := range scores {
		hitrate[i] = orZero(s.Hitrate)
		accuracy[i] = orZero(s.Accuracy)
	}
	var b strings.Builder
	b.WriteString(asciigraph.Plot(hitrate, asciigraph.Height(PlotHeight), asciigraph.Caption("hitrate over threshold")))
	b.WriteString("\n\n")
	b.WriteString(asciigraph.Plot(accuracy, asciigraph.Height(PlotHeight), asciigraph.Caption("accuracy over threshold")))
	return b.String()
}

func sum(s Score) float64 {
	return orZero(s.Hitrate) + orZero(s.Accuracy)
}

func orZero(f *float64) float64 {
	if f == nil || math.IsNaN(*f) {
		return 0
	}
	return *f
}

func joinInts(ii []int) string {
	ss := make([]string, len(ii))
	for i, v := range ii {
		ss[i] = strconv.Itoa(v)
	}
	return strings.Join(ss, " ")
}

func joinFloats(ff []float64) string {
	ss := make([]string, len(ff))
	for i, v := range ff {
		ss[i] = clmath.Format(v)
	}
	return strings.Join(ss, " ")
}
