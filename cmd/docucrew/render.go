package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Strob0t/DocuCrew/internal/domain/crew"
	"github.com/Strob0t/DocuCrew/internal/domain/repository"
)

var (
	agentStyle = lipgloss.NewStyle().Bold(true).Width(16)
	timeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	statusStyles = map[crew.Status]lipgloss.Style{
		crew.StatusWaiting:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		crew.StatusWorking:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		crew.StatusCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		crew.StatusFailed:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// progressLine formats one progress event for the terminal.
func progressLine(ev crew.ProgressEvent) string {
	style, ok := statusStyles[ev.Status]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return fmt.Sprintf("%s %s %s %s",
		timeStyle.Render(ev.Timestamp.Format("15:04:05")),
		agentStyle.Render(ev.Agent),
		style.Render(fmt.Sprintf("%-9s", ev.Status)),
		ev.Message,
	)
}

// printSummary writes a short header describing the snapshot.
func printSummary(w io.Writer, snap *repository.Snapshot, apiFiles []repository.APIFile) {
	fmt.Fprintln(w, titleStyle.Render(snap.FullName))
	if snap.Description != "" {
		fmt.Fprintln(w, snap.Description)
	}
	fmt.Fprintf(w, "language: %s  stars: %d  forks: %d  files: %d\n",
		orUnknown(snap.PrimaryLanguage), snap.Stars, snap.Forks, snap.FileCount)
	if len(snap.Topics) > 0 {
		fmt.Fprintf(w, "topics: %s\n", strings.Join(snap.Topics, ", "))
	}
	if len(apiFiles) > 0 {
		fmt.Fprintln(w, "api files:")
		for _, f := range apiFiles {
			fmt.Fprintf(w, "  %s\n", f.Path)
		}
	}
}

// renderMarkdown renders md for a terminal of the given width.
func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
