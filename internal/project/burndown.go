package project

import (
	"math"
	"sort"
	"time"

	"github.com/kanmd/kanmd/internal/board"
	"github.com/kanmd/kanmd/internal/index"
)

// BurndownOptions selects the tasks and period for a burndown series.
type BurndownOptions struct {
	Sprint   string
	Dates    []time.Time
	Assigned string
	Columns  []string
}

// BurndownPoint is one sample of remaining workload at a point in time.
type BurndownPoint struct {
	X time.Time `json:"x"`
	Y int       `json:"y"`
}

// BurndownSeries is a named period with its workload samples.
type BurndownSeries struct {
	Name   string          `json:"name"`
	From   time.Time       `json:"from"`
	To     time.Time       `json:"to"`
	Points []BurndownPoint `json:"points"`
}

// BurndownData is the chartable burndown output.
type BurndownData struct {
	Series []BurndownSeries `json:"series"`
}

// Burndown computes remaining-workload-over-time data for a sprint, a
// date range, or (by default) the whole board history. A sample is taken
// at every task creation and completion event inside the period.
func (p *Project) Burndown(opts BurndownOptions) (*BurndownData, error) {
	idx, err := p.LoadIndex()
	if err != nil {
		return nil, err
	}
	tasks, err := p.LoadAllTrackedTasks(idx)
	if err != nil {
		return nil, err
	}

	hydrated := board.HydrateAll(idx, tasks)
	hydrated = selectBurndownTasks(hydrated, opts)

	from, to, err := burndownPeriod(idx, hydrated, opts)
	if err != nil {
		return nil, err
	}

	name := opts.Sprint
	if name == "" {
		name = "Burndown"
	}

	series := BurndownSeries{Name: name, From: from, To: to}
	for _, at := range burndownSamples(hydrated, from, to) {
		series.Points = append(series.Points, BurndownPoint{
			X: at,
			Y: remainingWorkloadAt(hydrated, at),
		})
	}

	return &BurndownData{Series: []BurndownSeries{series}}, nil
}

func selectBurndownTasks(tasks []board.Hydrated, opts BurndownOptions) []board.Hydrated {
	if opts.Assigned == "" && len(opts.Columns) == 0 {
		return tasks
	}
	var result []board.Hydrated
	for _, h := range tasks {
		if opts.Assigned != "" && h.Metadata.Assigned != opts.Assigned {
			continue
		}
		if len(opts.Columns) > 0 && !containsStr(opts.Columns, h.Column) {
			continue
		}
		result = append(result, h)
	}
	return result
}

func burndownPeriod(idx *index.Index, tasks []board.Hydrated,
	opts BurndownOptions) (time.Time, time.Time, error) {
	if opts.Sprint != "" || len(opts.Dates) > 0 {
		return resolvePeriod(idx, opts.Sprint, opts.Dates)
	}

	// Default period: earliest creation date to now.
	now := time.Now()
	from := now
	for _, h := range tasks {
		if h.Metadata.Created != nil && h.Metadata.Created.Before(from) {
			from = *h.Metadata.Created
		}
	}
	return from, now, nil
}

// burndownSamples returns the sorted, deduplicated sample times: the
// period bounds plus every creation/completion event inside them.
func burndownSamples(tasks []board.Hydrated, from, to time.Time) []time.Time {
	seen := map[time.Time]bool{from: true, to: true}
	samples := []time.Time{from, to}

	add := func(t *time.Time) {
		if t == nil || t.Before(from) || t.After(to) || seen[*t] {
			return
		}
		seen[*t] = true
		samples = append(samples, *t)
	}
	for _, h := range tasks {
		add(h.Metadata.Created)
		add(h.Metadata.Completed)
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i].Before(samples[j]) })
	return samples
}

// remainingWorkloadAt sums the workload still open at a point in time:
// tasks not yet created contribute nothing, tasks completed by then are
// burned down to zero. A task that is complete now but was still open at
// the sample time counts its full workload, not its current (zero)
// remaining workload.
func remainingWorkloadAt(tasks []board.Hydrated, at time.Time) int {
	total := 0
	for _, h := range tasks {
		if h.Metadata.Created != nil && h.Metadata.Created.After(at) {
			continue
		}
		if h.Metadata.Completed != nil && !h.Metadata.Completed.After(at) {
			continue
		}
		if h.Completed {
			total += int(math.Ceil(h.Workload))
			continue
		}
		total += h.RemainingWorkload
	}
	return total
}
