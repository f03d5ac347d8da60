// Package project ties the codecs and the query engine to the filesystem:
// board discovery, index/task persistence, task lifecycle operations, and
// reporting. Writes are whole-file overwrites; there is no cross-file
// transaction between the index and task files.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kanmd/kanmd/internal/board"
	"github.com/kanmd/kanmd/internal/clierr"
	"github.com/kanmd/kanmd/internal/index"
	"github.com/kanmd/kanmd/internal/task"
)

// Board directory layout.
const (
	BoardDir   = ".kanmd"
	IndexFile  = "index.md"
	TasksDir   = "tasks"
	ArchiveDir = "archive"

	fileMode = 0o600
	dirMode  = 0o750
)

// Project is a board rooted at a .kanmd directory.
type Project struct {
	root string
}

// Open returns a Project rooted at the given board directory. The
// directory need not exist yet; Initialized reports whether it does.
func Open(boardDir string) (*Project, error) {
	abs, err := filepath.Abs(boardDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	return &Project{root: abs}, nil
}

// Find walks upward from startDir looking for a board directory. Returns
// a NOT_INITIALIZED error when none is found.
func Find(startDir string) (*Project, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	dir := abs
	for {
		candidate := filepath.Join(dir, BoardDir, IndexFile)
		if _, err := os.Stat(candidate); err == nil {
			return &Project{root: filepath.Join(dir, BoardDir)}, nil
		}

		// Also allow running from inside the board directory itself.
		if _, err := os.Stat(filepath.Join(dir, IndexFile)); err == nil && filepath.Base(dir) == BoardDir {
			return &Project{root: dir}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, clierr.New(clierr.NotInitialized,
				"no board found (run 'kanmd init' to create one)")
		}
		dir = parent
	}
}

// Root returns the absolute path to the board directory.
func (p *Project) Root() string { return p.root }

// IndexPath returns the absolute path to the index file.
func (p *Project) IndexPath() string { return filepath.Join(p.root, IndexFile) }

// TasksPath returns the absolute path to the tasks directory.
func (p *Project) TasksPath() string { return filepath.Join(p.root, TasksDir) }

// ArchivePath returns the absolute path to the archive directory.
func (p *Project) ArchivePath() string { return filepath.Join(p.root, ArchiveDir) }

func (p *Project) taskPath(id string) string {
	return filepath.Join(p.TasksPath(), task.Filename(id))
}

func (p *Project) archivedPath(id string) string {
	return filepath.Join(p.ArchivePath(), task.Filename(id))
}

// Initialized reports whether the board exists on disk.
func (p *Project) Initialized() bool {
	_, err := os.Stat(p.IndexPath())
	return err == nil
}

// Init creates the board directory, tasks subdirectory, and index file.
func (p *Project) Init(name, description string, columns []string) error {
	if p.Initialized() {
		return clierr.Newf(clierr.Conflict, "board already exists at %s", p.root)
	}
	if len(columns) == 0 {
		columns = []string{"Backlog", "Todo", "In Progress", "Done"}
	}

	if err := os.MkdirAll(p.TasksPath(), dirMode); err != nil {
		return fmt.Errorf("creating tasks directory: %w", err)
	}

	idx := index.Index{
		Name:        name,
		Description: description,
		Options:     index.Options{},
	}
	for _, c := range columns {
		idx.Columns = append(idx.Columns, index.Column{Name: c})
	}

	return p.SaveIndex(&idx)
}

// LoadIndex reads and decodes the index document.
func (p *Project) LoadIndex() (*index.Index, error) {
	data, err := os.ReadFile(p.IndexPath()) //nolint:gosec // board path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, clierr.New(clierr.NotInitialized,
				"no board found (run 'kanmd init' to create one)")
		}
		return nil, fmt.Errorf("reading index: %w", err)
	}

	idx, err := index.Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", p.IndexPath(), err)
	}
	return &idx, nil
}

// SaveIndex validates, materializes any saved per-column sort rules, and
// writes the index document. Materialization happens on every save, not
// just explicit sort commands: a column listed in columnSorting always
// persists in its sorted order.
func (p *Project) SaveIndex(idx *index.Index) error {
	if err := p.materializeColumnSorting(idx); err != nil {
		return err
	}

	text, err := index.Encode(*idx, index.EncodeOptions{})
	if err != nil {
		return err
	}
	if err := os.WriteFile(p.IndexPath(), []byte(text), fileMode); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}

// materializeColumnSorting overwrites the task order of every column with
// a saved sort rule. Columns without rules keep their manual order.
func (p *Project) materializeColumnSorting(idx *index.Index) error {
	sorting := idx.Options.ColumnSorting()
	if len(sorting) == 0 {
		return nil
	}

	for column, sorters := range sorting {
		col := idx.Column(column)
		if col == nil {
			continue
		}

		tasks := make([]board.Hydrated, 0, len(col.Tasks))
		for _, id := range col.Tasks {
			t, err := p.LoadTask(id)
			if err != nil {
				return fmt.Errorf("sorting column %q: %w", column, err)
			}
			tasks = append(tasks, board.Hydrate(idx, t))
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
	}

	return nil
}

// LoadTask reads and decodes a task document by id.
func (p *Project) LoadTask(id string) (task.Task, error) {
	data, err := os.ReadFile(p.taskPath(id)) //nolint:gosec // board path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return task.Task{}, clierr.Newf(clierr.TaskNotFound, "task %q not found", id).
				WithDetails(map[string]any{"id": id})
		}
		return task.Task{}, fmt.Errorf("reading task %q: %w", id, err)
	}

	t, err := task.Decode(string(data))
	if err != nil {
		return task.Task{}, fmt.Errorf("parsing %s: %w", task.Filename(id), err)
	}
	return t, nil
}

// SaveTask encodes and writes a task document.
func (p *Project) SaveTask(t task.Task) error {
	text, err := task.Encode(t)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p.taskPath(t.ID()), []byte(text), fileMode); err != nil {
		return fmt.Errorf("writing task %q: %w", t.ID(), err)
	}
	return nil
}

// LoadAllTrackedTasks loads every task tracked by the index. Each task
// file is immutable during the read, so the reads run concurrently;
// results come back in index order.
func (p *Project) LoadAllTrackedTasks(idx *index.Index) ([]task.Task, error) {
	ids := idx.TrackedIDs()
	tasks := make([]task.Task, len(ids))
	errs := make([]error, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			tasks[i], errs[i] = p.LoadTask(id)
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// HydrateTask loads a task and computes its derived fields.
func (p *Project) HydrateTask(idx *index.Index, id string) (board.Hydrated, error) {
	t, err := p.LoadTask(id)
	if err != nil {
		return board.Hydrated{}, err
	}
	return board.Hydrate(idx, t), nil
}

// taskFileExists reports whether a task document exists in tasks/.
func (p *Project) taskFileExists(id string) bool {
	_, err := os.Stat(p.taskPath(id))
	return err == nil
}
