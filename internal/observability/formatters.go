// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/job-tracker/internal/dashboard"
	"github.com/jonathan/job-tracker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 20
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStats outputs the six dashboard counters.
func (p *Printer) PrintStats(stats dashboard.Stats) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total Applications:  %d\n", stats.Total)
	fmt.Fprintf(&sb, "Pending:             %d\n", stats.Pending)
	fmt.Fprintf(&sb, "Interviews:          %d\n", stats.Interviews)
	fmt.Fprintf(&sb, "Offers:              %d\n", stats.Offers)
	fmt.Fprintf(&sb, "Rejections:          %d\n", stats.Rejections)
	fmt.Fprintf(&sb, "Upcoming Deadlines:  %d", stats.UpcomingDeadlines)

	p.printBox("JOB SEARCH SUMMARY", sb.String())
}

// PrintApplications outputs one entry per application with its status and
// deadline countdown relative to now.
func (p *Printer) PrintApplications(jobs []types.JobApplication, now time.Time) {
	if len(jobs) == 0 {
		p.printBox("APPLICATIONS", "No job applications yet")
		return
	}

	var sb strings.Builder
	count := min(len(jobs), maxItemsToShow)
	for i := 0; i < count; i++ {
		job := jobs[i]
		fmt.Fprintf(&sb, "%s at %s\n", job.JobTitle, job.CompanyName)
		fmt.Fprintf(&sb, "    %s · %s priority · applied %s\n",
			job.Status, job.Priority, dashboard.FormatDate(job.ApplicationDate))
		if job.Location != "" {
			fmt.Fprintf(&sb, "    %s · %s\n", job.Location, job.JobType)
		}
		if job.Deadline != nil {
			marker := ""
			if dashboard.IsUrgent(*job.Deadline, now) {
				marker = " ⚠"
			}
			fmt.Fprintf(&sb, "    Deadline %s (%s)%s\n",
				dashboard.FormatDate(*job.Deadline), dashboard.DeadlineLabel(*job.Deadline, now), marker)
		}
		fmt.Fprintf(&sb, "    id %s", job.ID)
		if i < count-1 {
			sb.WriteString("\n\n")
		}
	}

	if len(jobs) > maxItemsToShow {
		fmt.Fprintf(&sb, "\n\n... and %d more applications", len(jobs)-maxItemsToShow)
	}

	p.printBox(fmt.Sprintf("APPLICATIONS (%d)", len(jobs)), sb.String())
}

// PrintSuggestion outputs AI suggestions for a CV.
func (p *Printer) PrintSuggestion(s *types.CVSuggestion) {
	if s == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Match Score: %d%%\n", s.MatchScore)
	writeList(&sb, "Skills to highlight", s.Skills)
	writeList(&sb, "Keywords to include", s.Keywords)
	writeList(&sb, "Improvements", s.Improvements)

	p.printBox("CV SUGGESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
}

// truncate shortens s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// pad right-fills s with spaces to width runes. fmt's width counts bytes,
// which misaligns the box for non-ASCII text.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
