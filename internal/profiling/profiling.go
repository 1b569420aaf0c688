// Package profiling instruments a Block Processor's solve loop with
// per-identity wall-clock sampling, emitted as a pprof profile.Profile
// (spec.md §10.5's supplemented profiling hook) so a slow program can be
// traced back to the specific identities or lookups responsible.
package profiling

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/pprof/profile"
)

// Recorder accumulates per-label sample durations during a solve and
// renders them into a profile.Profile on demand. It is not safe for
// concurrent use from multiple goroutines — the solve path this package
// instruments is itself single-threaded (spec.md §5).
type Recorder struct {
	samples map[string]*accum
	order   []string
}

type accum struct {
	count    int64
	nanos    int64
}

// NewRecorder builds an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{samples: map[string]*accum{}}
}

// Track times fn under label, e.g. an identity's Text or a machine's Name,
// and folds its duration into the running total for that label.
func (r *Recorder) Track(label string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.add(label, time.Since(start))
	return err
}

func (r *Recorder) add(label string, d time.Duration) {
	a, ok := r.samples[label]
	if !ok {
		a = &accum{}
		r.samples[label] = a
		r.order = append(r.order, label)
	}
	a.count++
	a.nanos += d.Nanoseconds()
}

// Profile renders the accumulated samples into a pprof profile.Profile with
// two sample value types: a count of invocations and total nanoseconds
// spent, one sample per distinct label.
func (r *Recorder) Profile() *profile.Profile {
	p := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "count", Unit: "count"},
			{Type: "wall", Unit: "nanoseconds"},
		},
		TimeNanos: time.Now().UnixNano(),
	}

	funcs := map[string]*profile.Function{}
	locs := map[string]*profile.Location{}
	var nextID uint64

	labels := append([]string(nil), r.order...)
	sort.Strings(labels)

	for _, label := range labels {
		a := r.samples[label]
		nextID++
		fn := &profile.Function{ID: nextID, Name: label, SystemName: label}
		funcs[label] = fn
		p.Function = append(p.Function, fn)

		nextID++
		loc := &profile.Location{ID: nextID, Line: []profile.Line{{Function: fn}}}
		locs[label] = loc
		p.Location = append(p.Location, loc)

		p.Sample = append(p.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value:    []int64{a.count, a.nanos},
			Label:    map[string][]string{"identity": {label}},
		})
	}
	return p
}

// Summary renders a short human-readable breakdown, most time spent first,
// for a --verbose run's log output rather than a written .pprof file.
func (r *Recorder) Summary() []string {
	type row struct {
		label string
		a     *accum
	}
	rows := make([]row, 0, len(r.order))
	for _, l := range r.order {
		rows = append(rows, row{l, r.samples[l]})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].a.nanos > rows[j].a.nanos })

	out := make([]string, 0, len(rows))
	for _, rw := range rows {
		out = append(out, fmt.Sprintf("%s: %d calls, %s total", rw.label, rw.a.count, time.Duration(rw.a.nanos)))
	}
	return out
}
