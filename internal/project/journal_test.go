package project

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/kanmd/kanmd/internal/task"
)

func readJournal(t *testing.T, p *Project) []JournalEntry {
	t.Helper()

	f, err := os.Open(filepath.Join(p.Root(), journalFileName))
	if err != nil {
		t.Fatalf("opening journal: %v", err)
	}
	defer f.Close()

	var entries []JournalEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry JournalEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("bad journal line %q: %v", scanner.Text(), err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestJournalRecordsOperations(t *testing.T) {
	p := newTestProject(t)

	id, err := p.CreateTask(task.Task{Name: "Logged"}, "Backlog")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := p.MoveTask(id, "Done", -1); err != nil {
		t.Fatalf("MoveTask: %v", err)
	}
	if err := p.DeleteTask(id, true); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	entries := readJournal(t, p)
	if len(entries) != 3 {
		t.Fatalf("entries = %v", entries)
	}

	actions := []string{entries[0].Action, entries[1].Action, entries[2].Action}
	want := []string{"create", "move", "delete"}
	for i := range want {
		if actions[i] != want[i] {
			t.Fatalf("actions = %v, want %v", actions, want)
		}
	}
	if entries[0].Task != id || entries[0].Timestamp.IsZero() {
		t.Errorf("entry = %+v", entries[0])
	}
	if entries[1].Detail != "Backlog -> Done" {
		t.Errorf("move detail = %q", entries[1].Detail)
	}
}

func TestJournalTruncation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, journalFileName)

	// Seed a journal past the cap in one write, then append once more.
	line := `{"timestamp":"2024-01-01T00:00:00Z","action":"create","task":"t"}` + "\n"
	var seed bytes.Buffer
	for i := 0; i < maxJournalEntries+5; i++ {
		seed.WriteString(line)
	}
	if err := os.WriteFile(path, seed.Bytes(), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := appendJournal(path, JournalEntry{Action: "create", Task: "t"}); err != nil {
		t.Fatalf("appendJournal: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	if count > maxJournalEntries {
		t.Errorf("journal has %d entries, want at most %d", count, maxJournalEntries)
	}
}
