// Package observ measures how long the lint pipeline spends in each phase.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one named slice of the run. A folded phase is a sum of samples
// that overlap the timed phases (per-file work done by parallel workers)
// and is kept out of the total.
type Phase struct {
	Name   string
	Start  time.Time
	Dur    time.Duration
	Note   string
	Count  int
	Folded bool
}

// Timer keeps phases in first-seen order. It is safe for concurrent use,
// and a nil *Timer ignores every call.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
	byName map[string]int // только свёрнутые фазы
}

// NewTimer returns an empty Timer.
func NewTimer() *Timer {
	return &Timer{byName: make(map[string]int)}
}

func (t *Timer) with(fn func()) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fn()
}

// Begin opens a timed phase and returns the handle End expects; -1 on a
// nil Timer.
func (t *Timer) Begin(name string) int {
	idx := -1
	t.with(func() {
		idx = len(t.phases)
		t.phases = append(t.phases, Phase{Name: name, Start: time.Now(), Count: 1})
	})
	return idx
}

// End closes the phase returned by Begin. Unknown handles are ignored.
func (t *Timer) End(idx int, note string) {
	t.with(func() {
		if idx < 0 || idx >= len(t.phases) {
			return
		}
		t.phases[idx].Dur = time.Since(t.phases[idx].Start)
		t.phases[idx].Note = note
	})
}

// Add folds one sample into the phase called name.
func (t *Timer) Add(name string, d time.Duration) {
	t.with(func() {
		if t.byName == nil {
			t.byName = make(map[string]int)
		}
		if i, ok := t.byName[name]; ok {
			t.phases[i].Dur += d
			t.phases[i].Count++
			return
		}
		t.byName[name] = len(t.phases)
		t.phases = append(t.phases, Phase{Name: name, Start: time.Now(), Dur: d, Count: 1, Folded: true})
	})
}

// PhaseReport is the serialisable view of a Phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// Report is a snapshot of the timer.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots the phases; folded phases are listed but not summed.
func (t *Timer) Report() Report {
	var r Report
	t.with(func() {
		if len(t.phases) == 0 {
			return
		}
		var total time.Duration
		r.Phases = make([]PhaseReport, 0, len(t.phases))
		for _, p := range t.phases {
			if !p.Folded {
				total += p.Dur
			}
			r.Phases = append(r.Phases, PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Count: p.Count, Note: p.Note})
		}
		r.TotalMS = millis(total)
	})
	return r
}

// Summary renders the report as the --timings block printed to stderr.
func (t *Timer) Summary() string {
	r := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		line := fmt.Sprintf("  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Count > 1 {
			line += fmt.Sprintf("  x%d", p.Count)
		}
		if p.Note != "" {
			line += "  // " + p.Note
		}
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
