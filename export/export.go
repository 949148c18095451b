package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"task-manager/model"
)

var (
	ErrEmptyPath   = errors.New("export path must not be empty")
	ErrNoClipboard = errors.New("no clipboard command available (install wl-copy or xclip)")
)

// Format selects how a snapshot is encoded.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// FormatForPath picks JSON for .json files and Markdown for anything else.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatMarkdown
}

// Snapshot is what gets written: the tasks as shown plus the selections that produced them.
type Snapshot struct {
	View       model.ViewState `json:"view"`
	Tasks      []model.Task    `json:"tasks"`
	ExportedAt time.Time       `json:"exportedAt"`
}

// WriteFile writes the snapshot to path using a temporary file and an atomic rename.
// The file is never read back by the application.
func WriteFile(path string, snap Snapshot) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrEmptyPath
	}
	data, err := Encode(FormatForPath(path), snap)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Encode renders the snapshot in the given format.
func Encode(format Format, snap Snapshot) ([]byte, error) {
	if snap.Tasks == nil {
		snap.Tasks = []model.Task{}
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatMarkdown:
		return []byte(Markdown(snap)), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// Markdown renders the snapshot as a checklist, one task per line.
func Markdown(snap Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Tasks (%s, sorted by %s)\n\n", snap.View.Filter, snap.View.SortBy)
	if len(snap.Tasks) == 0 {
		b.WriteString("_No tasks._\n")
		return b.String()
	}
	for _, t := range snap.Tasks {
		b.WriteString(ChecklistLine(t))
		if !snap.ExportedAt.IsZero() {
			fmt.Fprintf(&b, " (added %s)", humanize.RelTime(t.CreatedAt, snap.ExportedAt, "ago", "from now"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ChecklistLine renders a single task as "- [x] text [priority]".
func ChecklistLine(t model.Task) string {
	check := " "
	if t.Completed {
		check = "x"
	}
	text := strings.TrimSpace(strings.ReplaceAll(t.Text, "\n", " "))
	return fmt.Sprintf("- [%s] %s [%s]", check, text, t.Priority)
}

// CopyToClipboard hands text to the first clipboard command found on PATH.
// The command runs in the background so the UI never waits on it.
func CopyToClipboard(text string) error {
	candidates := []struct {
		name string
		args []string
	}{
		{name: "wl-copy", args: []string{"--type", "text/plain"}},
		{name: "xclip", args: []string{"-in", "-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--input"}},
		{name: "pbcopy"},
	}

	for _, c := range candidates {
		if _, err := exec.LookPath(c.name); err != nil {
			continue
		}
		go runClipboardCommand(c.name, c.args, text)
		return nil
	}
	return ErrNoClipboard
}

func runClipboardCommand(name string, args []string, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(text)
	_ = cmd.Run()
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
