package project

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	journalFileName   = "activity.jsonl"
	maxJournalEntries = 10000 // truncate oldest entries when the journal exceeds this size
)

// JournalEntry records a single board mutation.
type JournalEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Task      string    `json:"task"`
	Detail    string    `json:"detail,omitempty"`
}

// journal appends an activity entry. Errors are silently discarded because
// journaling must never fail an operation.
func (p *Project) journal(action, taskID, detail string) {
	entry := JournalEntry{
		Timestamp: time.Now(),
		Action:    action,
		Task:      taskID,
		Detail:    detail,
	}
	_ = appendJournal(filepath.Join(p.root, journalFileName), entry)
}

func appendJournal(path string, entry JournalEntry) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode) //nolint:gosec // journal path within board dir
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling journal entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing journal entry: %w", err)
	}

	// Best-effort truncation; errors are non-fatal.
	_ = truncateJournalIfNeeded(path)

	return nil
}

// truncateJournalIfNeeded rewrites the journal keeping only the most
// recent entries once it grows past the cap.
func truncateJournalIfNeeded(path string) error {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return err
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	_ = f.Close()

	if err := scanner.Err(); err != nil {
		return err
	}
	if len(lines) <= maxJournalEntries {
		return nil
	}

	lines = lines[len(lines)-maxJournalEntries:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(buf.String()), fileMode)
}
