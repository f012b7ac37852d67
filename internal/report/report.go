// Package report aggregates analyzer output across one or many models
// and renders the comparison artifacts: per-layer complexity curves,
// accumulated-complexity curves, bandwidth curves, and teacher/student
// comparisons with bottleneck detection.
//
// Rendered artifacts are terminal text (tabwriter tables, bar charts)
// and CSV exports. They are output-only: nothing downstream consumes
// them.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"

	"github.com/mimic-ml/mimic/internal/analyze"
	"github.com/mimic-ml/mimic/internal/extract"
	"github.com/mimic-ml/mimic/internal/nn"
)

// BottleneckSelection is the comparison point chosen for a student
// model.
//
// A detected bandwidth minimum only counts as a genuine bottleneck
// when the architecture declared one and the minimum actually drops
// below the input bandwidth; otherwise the last layer stands in as the
// comparison point. For genuine bottlenecks the accumulated complexity
// is taken one position before the minimum, capturing the cost up to
// but not including the compression layer.
type BottleneckSelection struct {
	Index          int
	Genuine        bool
	AccumOps       float64
	BandwidthRatio float64
}

// SelectBottleneck applies the bottleneck policy to a measurement.
func SelectBottleneck(result *analyze.Result, declared bool) BottleneckSelection {
	bw := result.Bandwidths
	last := len(bw) - 1

	if declared {
		min := floats.MinIdx(bw)
		if bw[min] < bw[0] {
			return BottleneckSelection{
				Index:          min,
				Genuine:        true,
				AccumOps:       result.AccumOps[min-1],
				BandwidthRatio: bw[min] / bw[0],
			}
		}
	}
	return BottleneckSelection{
		Index:          last,
		AccumOps:       result.AccumOps[last],
		BandwidthRatio: bw[last] / bw[0],
	}
}

// Summary writes a per-layer table for a single analyzed model.
func Summary(w io.Writer, label string, seq *extract.Sequence, result *analyze.Result) error {
	fmt.Fprintf(w, "--- %s ---\n", label)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Idx\tLayer\tOut Shape\tParams\tOps\tAccum Ops\tBandwidth [B]")
	fmt.Fprintf(tw, "0\t(input)\t%v\t0\t0\t0\t%.0f\n", seq.Shapes[0], result.Bandwidths[0])
	for i, layer := range seq.Layers {
		rec := result.Records[i+1]
		fmt.Fprintf(tw, "%d\t%s\t%v\t%d\t%.0f\t%.0f\t%.0f\n",
			i+1, layerName(layer), seq.Shapes[i+1], rec.Params, rec.Ops, rec.AccumOps, rec.Bandwidth)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total: %d params, %.0f ops, bandwidth ratio %.4f\n\n",
		result.TotalParams(), result.TotalOps(),
		result.Bandwidths[len(result.Bandwidths)-1]/result.Bandwidths[0])
	return err
}

func layerName(m nn.Module) string {
	if s, ok := m.(fmt.Stringer); ok {
		return s.String()
	}
	return m.Kind().String()
}

// entry is one analyzed model in a comparison set.
type entry struct {
	label  string
	result *analyze.Result
}

// ComparisonSet collects measurements from independently analyzed
// models for side-by-side rendering. It is read-only once rendered and
// holds no other state.
type ComparisonSet struct {
	entries []entry
}

// Add appends a model's measurement under the given label.
func (c *ComparisonSet) Add(label string, result *analyze.Result) {
	c.entries = append(c.entries, entry{label: label, result: result})
}

// Len returns the number of models in the set.
func (c *ComparisonSet) Len() int {
	return len(c.entries)
}

// WriteComplexities renders the per-layer operation counts of every
// model as bar charts.
func (c *ComparisonSet) WriteComplexities(w io.Writer) error {
	return c.writeCurves(w, "Layer complexity [ops]", func(e entry) []float64 {
		return e.result.OpCounts
	})
}

// WriteAccumulatedComplexities renders the accumulated operation
// counts of every model.
func (c *ComparisonSet) WriteAccumulatedComplexities(w io.Writer) error {
	return c.writeCurves(w, "Accumulated complexity [ops]", func(e entry) []float64 {
		return e.result.AccumOps
	})
}

// WriteBandwidths renders the bandwidth curve of every model. Position
// 0 is the input tensor's own byte size.
func (c *ComparisonSet) WriteBandwidths(w io.Writer) error {
	return c.writeCurves(w, "Bandwidth [B]", func(e entry) []float64 {
		return e.result.Bandwidths
	})
}

func (c *ComparisonSet) writeCurves(w io.Writer, title string, values func(entry) []float64) error {
	for _, e := range c.entries {
		if _, err := fmt.Fprintf(w, "%s: %s\n", e.label, title); err != nil {
			return err
		}
		if err := writeBars(w, values(e)); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV exports the comparison set as one CSV row per position.
func (c *ComparisonSet) WriteCSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "model,index,ops,accum_ops,bandwidth"); err != nil {
		return err
	}
	for _, e := range c.entries {
		for i := range e.result.OpCounts {
			_, err := fmt.Fprintf(w, "%s,%d,%.0f,%.0f,%.0f\n",
				e.label, i, e.result.OpCounts[i], e.result.AccumOps[i], e.result.Bandwidths[i])
			if err != nil {
				return err
			}
		}
	}
	return nil
}

const barWidth = 50

// writeBars renders a horizontal bar chart, one row per position,
// scaled to the largest value in the series.
func writeBars(w io.Writer, values []float64) error {
	max := floats.Max(values)
	for i, v := range values {
		n := 0
		if max > 0 {
			n = int(v / max * barWidth)
		}
		if _, err := fmt.Fprintf(w, "%3d |%-*s %12.0f\n", i, barWidth, strings.Repeat("#", n), v); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
