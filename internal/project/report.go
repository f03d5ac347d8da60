package project

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kanmd/kanmd/internal/board"
	"github.com/kanmd/kanmd/internal/clierr"
	"github.com/kanmd/kanmd/internal/index"
	"github.com/kanmd/kanmd/internal/task"
)

// SearchResult is the output of a board search.
type SearchResult struct {
	Total int              `json:"total"`
	IDs   []string         `json:"ids,omitempty"`
	Tasks []board.Hydrated `json:"tasks,omitempty"`
}

// Search filters all tracked tasks. With quiet set only the matching ids
// are returned; otherwise full hydrated tasks.
func (p *Project) Search(filters index.Filters, quiet bool) (*SearchResult, error) {
	idx, err := p.LoadIndex()
	if err != nil {
		return nil, err
	}
	tasks, err := p.LoadAllTrackedTasks(idx)
	if err != nil {
		return nil, err
	}

	matched, err := board.Filter(idx, board.HydrateAll(idx, tasks), filters)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Total: len(matched)}
	if quiet {
		for _, h := range matched {
			result.IDs = append(result.IDs, h.ID)
		}
		return result, nil
	}
	result.Tasks = matched
	return result, nil
}

// FilterAndSortTasks is the composition used by search and board
// rendering: filter first, then sort.
func (p *Project) FilterAndSortTasks(idx *index.Index, tasks []task.Task,
	filters index.Filters, sorters []index.Sorter) ([]board.Hydrated, error) {
	matched, err := board.Filter(idx, board.HydrateAll(idx, tasks), filters)
	if err != nil {
		return nil, err
	}
	return board.Sort(matched, sorters)
}

// StatusOptions controls status reporting.
type StatusOptions struct {
	Quiet     bool
	Untracked bool
	Due       bool
	Sprint    string
	Dates     []time.Time
}

// ColumnStatus summarizes one column.
type ColumnStatus struct {
	Name              string  `json:"name"`
	Count             int     `json:"count"`
	Workload          float64 `json:"workload"`
	RemainingWorkload int     `json:"remainingWorkload"`
}

// AssignedStatus summarizes one assignee's load.
type AssignedStatus struct {
	Assigned          string  `json:"assigned"`
	Count             int     `json:"count"`
	Workload          float64 `json:"workload"`
	RemainingWorkload int     `json:"remainingWorkload"`
}

// DueTask summarizes a task with a due date.
type DueTask struct {
	ID      string    `json:"id"`
	Column  string    `json:"column"`
	Due     time.Time `json:"due"`
	Overdue bool      `json:"overdue"`
	Message string    `json:"message"`
}

// Status is the board status report.
type Status struct {
	Name      string           `json:"name"`
	Tasks     int              `json:"tasks"`
	Columns   []ColumnStatus   `json:"columns"`
	Assigned  []AssignedStatus `json:"assigned,omitempty"`
	Due       []DueTask        `json:"due,omitempty"`
	Untracked []string         `json:"untracked,omitempty"`
	Period    string           `json:"period,omitempty"`
}

// Status computes the board status report. With a sprint or date range
// set, only tasks created in that period are counted.
func (p *Project) Status(opts StatusOptions) (*Status, error) {
	idx, err := p.LoadIndex()
	if err != nil {
		return nil, err
	}
	tasks, err := p.LoadAllTrackedTasks(idx)
	if err != nil {
		return nil, err
	}

	hydrated := board.HydrateAll(idx, tasks)
	if opts.Sprint != "" || len(opts.Dates) > 0 {
		hydrated, err = p.restrictToPeriod(idx, hydrated, opts)
		if err != nil {
			return nil, err
		}
	}

	status := &Status{Name: idx.Name, Tasks: len(hydrated), Period: opts.Sprint}

	byColumn := make(map[string]*ColumnStatus)
	for _, col := range idx.Columns {
		cs := &ColumnStatus{Name: col.Name}
		byColumn[col.Name] = cs
	}
	byAssigned := make(map[string]*AssignedStatus)

	for _, h := range hydrated {
		if cs, ok := byColumn[h.Column]; ok {
			cs.Count++
			cs.Workload += h.Workload
			cs.RemainingWorkload += h.RemainingWorkload
		}
		if !opts.Quiet && h.Metadata.Assigned != "" {
			as, ok := byAssigned[h.Metadata.Assigned]
			if !ok {
				as = &AssignedStatus{Assigned: h.Metadata.Assigned}
				byAssigned[h.Metadata.Assigned] = as
			}
			as.Count++
			as.Workload += h.Workload
			as.RemainingWorkload += h.RemainingWorkload
		}
		if opts.Due && h.Due != nil {
			status.Due = append(status.Due, DueTask{
				ID:      h.ID,
				Column:  h.Column,
				Due:     h.Due.Due,
				Overdue: h.Due.Overdue,
				Message: h.Due.Message,
			})
		}
	}

	for _, col := range idx.Columns {
		status.Columns = append(status.Columns, *byColumn[col.Name])
	}

	names := make([]string, 0, len(byAssigned))
	for name := range byAssigned {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		status.Assigned = append(status.Assigned, *byAssigned[name])
	}

	if opts.Untracked {
		untracked, err := p.UntrackedTasks(idx)
		if err != nil {
			return nil, err
		}
		status.Untracked = untracked
	}

	return status, nil
}

// restrictToPeriod keeps only tasks created within the named sprint or
// the inclusive range of the given dates.
func (p *Project) restrictToPeriod(idx *index.Index, tasks []board.Hydrated,
	opts StatusOptions) ([]board.Hydrated, error) {
	from, to, err := resolvePeriod(idx, opts.Sprint, opts.Dates)
	if err != nil {
		return nil, err
	}

	var result []board.Hydrated
	for _, h := range tasks {
		created := h.Metadata.Created
		if created == nil {
			continue
		}
		if !created.Before(from) && !created.After(to) {
			result = append(result, h)
		}
	}
	return result, nil
}

// resolvePeriod turns a sprint name or a date list into a [from, to]
// range. A sprint runs from its start to the next sprint's start, or now
// for the latest sprint.
func resolvePeriod(idx *index.Index, sprintName string, dates []time.Time) (time.Time, time.Time, error) {
	if sprintName != "" {
		sprints := idx.Options.Sprints()
		for i, s := range sprints {
			if s.Name != sprintName {
				continue
			}
			to := time.Now()
			if i+1 < len(sprints) {
				to = sprints[i+1].Start
			}
			return s.Start, to, nil
		}
		return time.Time{}, time.Time{}, clierr.Newf(clierr.DomainRule, "no sprint named %q", sprintName)
	}

	if len(dates) == 0 {
		return time.Time{}, time.Time{}, clierr.New(clierr.DomainRule, "no period given")
	}
	from, to := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(from) {
			from = d
		}
		if d.After(to) {
			to = d
		}
	}
	if len(dates) == 1 {
		// A single date means that whole calendar day.
		from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
		to = from.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return from, to, nil
}

// UntrackedTasks returns ids of task files not referenced by any column.
func (p *Project) UntrackedTasks(idx *index.Index) ([]string, error) {
	entries, err := os.ReadDir(p.TasksPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	tracked := make(map[string]bool)
	for _, id := range idx.TrackedIDs() {
		tracked[id] = true
	}

	var untracked []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".md")
		if !tracked[id] {
			untracked = append(untracked, id)
		}
	}
	return untracked, nil
}

// SortColumn sorts a column's tasks and persists the new order. With save
// set, the sorters are also stored in columnSorting so every future index
// save re-applies them.
func (p *Project) SortColumn(column string, sorters []index.Sorter, save bool) error {
	idx, err := p.LoadIndex()
	if err != nil {
		return err
	}
	col := idx.Column(column)
	if col == nil {
		return columnNotFound(column)
	}

	tasks := make([]board.Hydrated, 0, len(col.Tasks))
	for _, id := range col.Tasks {
		h, err := p.HydrateTask(idx, id)
		if err != nil {
			return err
		}
		tasks = append(tasks, h)
	}

	sorted, err := board.Sort(tasks, sorters)
	if err != nil {
		return err
	}
	ids := make([]string, len(sorted))
	for i, h := range sorted {
		ids[i] = h.ID
	}
	col.Tasks = ids

	if save {
		idx.Options.SetColumnSorting(column, sorters)
	}
	if err := p.SaveIndex(idx); err != nil {
		return err
	}

	p.journal("sort", column, "")
	return nil
}

// Sprint appends a named sprint to the board options.
func (p *Project) Sprint(name, description string, start time.Time) (index.Sprint, error) {
	if strings.TrimSpace(name) == "" {
		return index.Sprint{}, clierr.New(clierr.DomainRule, "sprint name cannot be empty")
	}

	idx, err := p.LoadIndex()
	if err != nil {
		return index.Sprint{}, err
	}

	sprint := index.Sprint{Name: name, Description: description, Start: start}
	idx.Options.SetSprints(append(idx.Options.Sprints(), sprint))

	if err := p.SaveIndex(idx); err != nil {
		return index.Sprint{}, err
	}

	p.journal("sprint", name, "")
	return sprint, nil
}
