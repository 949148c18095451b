package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"task-manager/model"
)

func sampleSnapshot() Snapshot {
	now := time.Date(2026, 2, 19, 12, 30, 0, 0, time.UTC)
	return Snapshot{
		View: model.ViewState{Filter: model.FilterAll, SortBy: model.SortDate},
		Tasks: []model.Task{
			{ID: 2, Text: "Write report", Priority: model.PriorityHigh, CreatedAt: now.Add(-2 * time.Minute)},
			{ID: 1, Text: "Buy milk", Completed: true, Priority: model.PriorityMedium, CreatedAt: now.Add(-3 * time.Hour)},
		},
		ExportedAt: now,
	}
}

func TestFormatForPath(t *testing.T) {
	if got := FormatForPath("out/tasks.JSON"); got != FormatJSON {
		t.Fatalf("expected json format, got %s", got)
	}
	if got := FormatForPath("tasks.md"); got != FormatMarkdown {
		t.Fatalf("expected markdown format, got %s", got)
	}
	if got := FormatForPath("tasks"); got != FormatMarkdown {
		t.Fatalf("expected markdown fallback, got %s", got)
	}
}

func TestWriteFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "tasks.json")
	want := sampleSnapshot()

	if err := WriteFile(path, want); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var got Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("exported file is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("snapshot mismatch\nwant=%+v\ngot=%+v", want, got)
	}
}

func TestWriteFileMarkdownLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.md")

	if err := WriteFile(path, sampleSnapshot()); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := WriteFile(path, Snapshot{View: model.NewViewState()}); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(data), "_No tasks._") {
		t.Fatalf("expected latest snapshot to replace the file, got:\n%s", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only the export file, got %v", names)
	}
}

func TestWriteFileRejectsEmptyPath(t *testing.T) {
	if err := WriteFile("  ", sampleSnapshot()); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

func TestMarkdownChecklist(t *testing.T) {
	md := Markdown(sampleSnapshot())
	lines := strings.Split(strings.TrimSpace(md), "\n")
	if lines[0] != "# Tasks (all, sorted by date)" {
		t.Fatalf("unexpected heading %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "- [ ] Write report [high]") || !strings.Contains(lines[2], "minutes ago") {
		t.Fatalf("unexpected first item %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "- [x] Buy milk [medium]") || !strings.Contains(lines[3], "hours ago") {
		t.Fatalf("unexpected second item %q", lines[3])
	}
}

func TestChecklistLineFlattensNewlines(t *testing.T) {
	got := ChecklistLine(model.Task{Text: "line one\nline two", Priority: model.PriorityLow})
	if got != "- [ ] line one line two [low]" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	if _, err := Encode(Format("pdf"), sampleSnapshot()); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
