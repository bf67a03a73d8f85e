package migrate

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/sndtools/snd/pkg/legacy"
	"github.com/sndtools/snd/pkg/macro"
	migration "github.com/sndtools/snd/pkg/migrate"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	contentStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			MarginLeft(2).
			PaddingLeft(1)
)

func renderFailure(w io.Writer, message string) {
	fmt.Fprintln(w, errorStyle.Render("Migration Preview Failed"))
	fmt.Fprintln(w, message)
}

func renderPreview(w io.Writer, rs *migration.ResultSet, details bool) {
	fmt.Fprintln(w, titleStyle.Render("Import Macros"))
	fmt.Fprintln(w, "Review the macros that will be imported from the old configuration.")
	fmt.Fprintln(w)

	if rs.Len() == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No macros found."))
		return
	}

	for _, e := range rs.Entries() {
		check := "[ ]"
		if e.Selected {
			check = "[x]"
		}
		fmt.Fprintf(w, "%s %s %s\n", check, entryLabel(e), mutedStyle.Render("in "+e.Macro.FolderPath))

		if details {
			renderDetails(w, e.Macro)
		}
	}

	fmt.Fprintf(w, "\n%d of %d macro(s) selected\n", rs.SelectedCount(), rs.Len())
}

func renderDrift(w io.Writer, drift []legacy.Drift) {
	fmt.Fprintln(w)
	if len(drift) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Legacy configuration matches the expected layout."))
		return
	}
	fmt.Fprintln(w, titleStyle.Render("Layout differences"))
	for _, d := range drift {
		fmt.Fprintf(w, "- %s\n", d)
	}
}

func entryLabel(e *migration.Entry) string {
	return fmt.Sprintf("%s (%s)", e.Name, e.Macro.Type)
}

func renderDetails(w io.Writer, m *macro.Macro) {
	fmt.Fprintln(w, "    Content:")
	fmt.Fprintln(w, contentStyle.Render(m.Content))
	fmt.Fprintln(w, "    Settings:")
	fmt.Fprintf(w, "    - Crafting Loop: %t\n", m.Metadata.CraftingLoop)
	if m.Metadata.CraftingLoop {
		fmt.Fprintf(w, "    - Loop Count: %d\n", m.Metadata.CraftLoopCount)
	}
	if len(m.Metadata.TriggerEvents) > 0 {
		fmt.Fprintf(w, "    - Trigger Events: %s\n", triggerList(m.Metadata.TriggerEvents))
	}
}

func triggerList(events []macro.TriggerEvent) string {
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.String())
	}
	return strings.Join(names, ", ")
}

type previewEntry struct {
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	FolderPath     string    `json:"folder_path"`
	Selected       bool      `json:"selected"`
	Content        string    `json:"content"`
	LastModified   time.Time `json:"last_modified"`
	CraftingLoop   bool      `json:"crafting_loop"`
	CraftLoopCount int       `json:"craft_loop_count"`
	TriggerEvents  []string  `json:"trigger_events"`
}

func previewEntries(rs *migration.ResultSet) []previewEntry {
	entries := make([]previewEntry, 0, rs.Len())
	for _, e := range rs.Entries() {
		triggers := make([]string, 0, len(e.Macro.Metadata.TriggerEvents))
		for _, t := range e.Macro.Metadata.TriggerEvents {
			triggers = append(triggers, t.String())
		}
		entries = append(entries, previewEntry{
			Name:           e.Name,
			Type:           e.Macro.Type.String(),
			FolderPath:     e.Macro.FolderPath,
			Selected:       e.Selected,
			Content:        e.Macro.Content,
			LastModified:   e.Macro.Metadata.LastModified,
			CraftingLoop:   e.Macro.Metadata.CraftingLoop,
			CraftLoopCount: e.Macro.Metadata.CraftLoopCount,
			TriggerEvents:  triggers,
		})
	}
	return entries
}

func writeJSON(w io.Writer, rs *migration.ResultSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(previewEntries(rs))
}

func writeCSV(w io.Writer, rs *migration.ResultSet) error {
	cw := csv.NewWriter(w)
	if rs.Len() > 0 {
		if err := cw.Write([]string{"Name", "Type", "Folder", "Selected", "Crafting Loop", "Loop Count", "Trigger Events"}); err != nil {
			return err
		}
	}

	for _, e := range previewEntries(rs) {
		row := []string{
			e.Name,
			e.Type,
			e.FolderPath,
			strconv.FormatBool(e.Selected),
			strconv.FormatBool(e.CraftingLoop),
			strconv.Itoa(e.CraftLoopCount),
			strings.Join(e.TriggerEvents, ";"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func writePreview(w io.Writer, rs *migration.ResultSet, format string, details bool) error {
	switch format {
	case "", "text":
		renderPreview(w, rs, details)
		return nil
	case "json":
		return writeJSON(w, rs)
	case "csv":
		return writeCSV(w, rs)
	}
	return errors.Errorf("unknown format: %s. Requires text, json or csv", format)
}
