package indicator

import (
	"math"

	"signal-systemv1/internal/model"
)

// Frame is a bar series augmented with indicator value columns and one
// discrete signal column per applied indicator.
//
// Columns are float64 series aligned with Bars; warm-up cells hold NaN.
// Signal columns hold -1/0/+1 and are always 0 inside an indicator's
// warm-up window.
type Frame struct {
	Bars []model.Bar

	cols     map[string][]float64
	colOrder []string
	sigs     map[string][]int
	sigOrder []string
}

// newFrame copies the bar series so computation never mutates the caller's
// slice.
func newFrame(bars []model.Bar) *Frame {
	cp := make([]model.Bar, len(bars))
	copy(cp, bars)
	return &Frame{
		Bars: cp,
		cols: make(map[string][]float64),
		sigs: make(map[string][]int),
	}
}

// Len returns the number of bars.
func (f *Frame) Len() int { return len(f.Bars) }

func (f *Frame) setColumn(name string, vals []float64) {
	if _, exists := f.cols[name]; !exists {
		f.colOrder = append(f.colOrder, name)
	}
	f.cols[name] = vals
}

func (f *Frame) setSignal(label string, sig []int) {
	if _, exists := f.sigs[label]; !exists {
		f.sigOrder = append(f.sigOrder, label)
	}
	f.sigs[label] = sig
}

// Column returns a value column by name, or nil if absent.
func (f *Frame) Column(name string) []float64 { return f.cols[name] }

// ColumnNames returns value column names in insertion order.
func (f *Frame) ColumnNames() []string {
	out := make([]string, len(f.colOrder))
	copy(out, f.colOrder)
	return out
}

// Signal returns an indicator's signal column by label, or nil if absent.
func (f *Frame) Signal(label string) []int { return f.sigs[label] }

// SignalLabels returns the labels of applied indicators in insertion order.
func (f *Frame) SignalLabels() []string {
	out := make([]string, len(f.sigOrder))
	copy(out, f.sigOrder)
	return out
}

// Signals returns all per-indicator signal columns in insertion order.
func (f *Frame) Signals() [][]int {
	out := make([][]int, 0, len(f.sigOrder))
	for _, label := range f.sigOrder {
		out = append(out, f.sigs[label])
	}
	return out
}

// ValuesAt returns every finite column value at bar index i, keyed by column
// name. Used to attach indicator detail to signals and live trade events.
func (f *Frame) ValuesAt(i int) map[string]float64 {
	if i < 0 || i >= f.Len() {
		return nil
	}
	out := make(map[string]float64, len(f.colOrder))
	for _, name := range f.colOrder {
		if v := f.cols[name][i]; !math.IsNaN(v) {
			out[name] = v
		}
	}
	return out
}
