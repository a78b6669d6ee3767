package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

// theme holds the output styles. The zero theme renders plain text.
type theme struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Border  lipgloss.Style
}

// newTheme returns a coloured theme when w is a terminal.
func newTheme(w io.Writer) theme {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return theme{}
	}
	return theme{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		Border:  lipgloss.NewStyle().Foreground(lipgloss.Color("#45475A")),
	}
}

func (t theme) status(s domain.SourceStatus) string {
	switch {
	case s == domain.StatusScheduled:
		return t.Success.Render(string(s))
	case s.IsFailed():
		return t.Error.Render(string(s))
	default:
		return t.Muted.Render("Pending")
	}
}

func (t theme) messageType(mt domain.MessageType) string {
	switch mt {
	case domain.MessageError:
		return t.Error.Render(string(mt))
	case domain.MessageCompletion:
		return t.Success.Render(string(mt))
	default:
		return t.Muted.Render(string(mt))
	}
}

func (t theme) table(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(t.Border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.Header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}

// renderReport prints the outcome of one ingest run.
func renderReport(w io.Writer, r *domain.BatchReport) {
	t := newTheme(w)

	title := "Run " + r.RunID
	if r.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(w, t.Title.Render(title))
	if r.ReleasePackageID != "" {
		fmt.Fprintf(w, "Release package: %s\n", r.ReleasePackageID)
	}
	if r.OffencesLoadID != "" {
		fmt.Fprintf(w, "Offence load:    %s\n", r.OffencesLoadID)
	}
	fmt.Fprintln(w)

	tbl := t.table("Source file", "Status", "Messages", "Offence revision")
	for _, sf := range r.SourceFiles {
		tbl.Row(sf.ID, t.status(sf.Status), strconv.Itoa(len(r.MessagesFor(sf.ID))), sf.OffenceRevisionID)
	}
	fmt.Fprintln(w, tbl.Render())

	for _, sf := range r.SourceFiles {
		if !sf.Status.IsFailed() {
			continue
		}
		fmt.Fprintln(w, t.Error.Render(sf.ID))
		for _, m := range r.MessagesFor(sf.ID) {
			fmt.Fprintf(w, "  %s %s %s\n", m.Code, t.messageType(m.Type), m.Text)
		}
	}

	summary := fmt.Sprintf("%d files: %d scheduled, %d failed, %d menus created",
		len(r.SourceFiles), r.Count(domain.StatusScheduled), r.Failed(), r.MenusCreated)
	if r.Failed() > 0 {
		summary = t.Warning.Render(summary)
	}
	fmt.Fprintln(w, summary)
}

// renderRuns prints a table of ledger runs.
func renderRuns(w io.Writer, runs []domain.RunSummary) {
	t := newTheme(w)
	if len(runs) == 0 {
		fmt.Fprintln(w, t.Muted.Render("No runs recorded."))
		return
	}

	tbl := t.table("Run", "Started", "Duration", "Files", "Scheduled", "Failed")
	for _, r := range runs {
		tbl.Row(
			r.RunID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
			strconv.Itoa(r.Files),
			strconv.Itoa(r.Scheduled),
			strconv.Itoa(r.Failed),
		)
	}
	fmt.Fprintln(w, tbl.Render())
}

// renderRunDetail prints one ledger run with every message.
func renderRunDetail(w io.Writer, d *domain.RunDetail) {
	t := newTheme(w)
	s := d.Summary

	fmt.Fprintln(w, t.Title.Render("Run "+s.RunID))
	fmt.Fprintf(w, "Started:         %s\n", s.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(w, "Finished:        %s\n", s.FinishedAt.Local().Format(time.RFC3339))
	if s.ReleasePackageID != "" {
		fmt.Fprintf(w, "Release package: %s\n", s.ReleasePackageID)
	}
	fmt.Fprintf(w, "Files:           %d (%d scheduled, %d failed)\n\n", s.Files, s.Scheduled, s.Failed)

	byFile := make(map[string][]domain.Message, len(d.SourceFiles))
	for _, m := range d.Messages {
		byFile[m.SourceFileID] = append(byFile[m.SourceFileID], m)
	}
	for _, sf := range d.SourceFiles {
		fmt.Fprintf(w, "%s  %s\n", sf.ID, t.status(sf.Status))
		for _, m := range byFile[sf.ID] {
			fmt.Fprintf(w, "  %s %s %s\n", m.Code, t.messageType(m.Type), m.Text)
		}
	}
}

type messageView struct {
	Code string `json:"code"`
	Type string `json:"type"`
	Text string `json:"text"`
}

type sourceFileView struct {
	ID                string        `json:"source_file_id"`
	Status            string        `json:"status"`
	OffenceRevisionID string        `json:"offence_revision_id,omitempty"`
	Messages          []messageView `json:"messages"`
}

type reportView struct {
	RunID            string           `json:"run_id"`
	ReleasePackageID string           `json:"release_package_id,omitempty"`
	DryRun           bool             `json:"dry_run"`
	StartedAt        time.Time        `json:"started_at"`
	FinishedAt       time.Time        `json:"finished_at"`
	Scheduled        int              `json:"scheduled"`
	Failed           int              `json:"failed"`
	MenusCreated     int              `json:"menus_created"`
	OffencesLoadID   string           `json:"offences_load_id,omitempty"`
	SourceFiles      []sourceFileView `json:"source_files"`
}

// writeReportJSON prints the report as indented JSON.
func writeReportJSON(w io.Writer, r *domain.BatchReport) error {
	view := reportView{
		RunID:            r.RunID,
		ReleasePackageID: r.ReleasePackageID,
		DryRun:           r.DryRun,
		StartedAt:        r.StartedAt,
		FinishedAt:       r.FinishedAt,
		Scheduled:        r.Count(domain.StatusScheduled),
		Failed:           r.Failed(),
		MenusCreated:     r.MenusCreated,
		OffencesLoadID:   r.OffencesLoadID,
		SourceFiles:      make([]sourceFileView, 0, len(r.SourceFiles)),
	}
	for _, sf := range r.SourceFiles {
		fv := sourceFileView{
			ID:                sf.ID,
			Status:            string(sf.Status),
			OffenceRevisionID: sf.OffenceRevisionID,
			Messages:          []messageView{},
		}
		for _, m := range r.MessagesFor(sf.ID) {
			fv.Messages = append(fv.Messages, messageView{Code: m.Code, Type: string(m.Type), Text: m.Text})
		}
		view.SourceFiles = append(view.SourceFiles, fv)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
