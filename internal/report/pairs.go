package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mimic-ml/mimic/internal/analyze"
)

// PairRow is the comparison point of one teacher/student pair.
type PairRow struct {
	Label             string
	TeacherOps        float64
	StudentOps        float64
	TeacherRatio      float64
	StudentRatio      float64
	BottleneckIdx     int
	GenuineBottleneck bool
}

// PairSet aggregates teacher/student pairs for comparison rendering.
//
// The teacher is always compared at its last layer. The student is
// compared at its selected bottleneck position, which falls back to
// the last layer when the declared bottleneck does not actually dip
// below the input bandwidth.
type PairSet struct {
	rows []PairRow
}

// AddPair records one teacher/student measurement pair. The declared
// flag states whether the student architecture is expected to contain
// a bottleneck.
func (p *PairSet) AddPair(label string, teacher, student *analyze.Result, declared bool) {
	sel := SelectBottleneck(student, declared)
	p.rows = append(p.rows, PairRow{
		Label:             label,
		TeacherOps:        teacher.TotalOps(),
		StudentOps:        sel.AccumOps,
		TeacherRatio:      teacher.Bandwidths[len(teacher.Bandwidths)-1] / teacher.Bandwidths[0],
		StudentRatio:      sel.BandwidthRatio,
		BottleneckIdx:     sel.Index,
		GenuineBottleneck: sel.Genuine,
	})
}

// Rows returns the recorded pairs.
func (p *PairSet) Rows() []PairRow {
	return p.rows
}

// Write renders the teacher-vs-student comparison table: accumulated
// complexity and normalized bandwidth at each pair's comparison point.
func (p *PairSet) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Pair\tTeacher Ops\tStudent Ops\tTeacher BW Ratio\tStudent BW Ratio\tBottleneck")
	for _, row := range p.rows {
		bottleneck := "last layer"
		if row.GenuineBottleneck {
			bottleneck = fmt.Sprintf("layer %d", row.BottleneckIdx)
		}
		fmt.Fprintf(tw, "%s\t%.0f\t%.0f\t%.4f\t%.4f\t%s\n",
			row.Label, row.TeacherOps, row.StudentOps, row.TeacherRatio, row.StudentRatio, bottleneck)
	}
	return tw.Flush()
}
