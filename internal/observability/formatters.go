// Package observability renders applications, stats and operation outcomes
// for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-tracker/internal/tracker"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/jonathan/job-tracker/internal/viewmodel"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// tableWidth fits the application table columns
	tableWidth = 96
)

// Printer writes formatted output
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
func (p *Printer) printBox(width int, title string, content string) {
	border := strings.Repeat("─", width-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, width-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, width-4), width-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintApplications outputs the visible page as a table followed by the
// paginator.
func (p *Printer) PrintApplications(apps []types.Application, pg viewmodel.Pagination) {
	var sb strings.Builder
	if len(apps) == 0 {
		sb.WriteString("No applications found")
	} else {
		sb.WriteString(row("ID", "COMPANY", "POSITION", "STATUS", "APPLIED"))
		for _, a := range apps {
			sb.WriteString("\n")
			sb.WriteString(row(string(a.ID), a.Company, a.Position, a.Status.Label(), a.DateApplied.String()))
		}
	}

	p.printBox(tableWidth, fmt.Sprintf("APPLICATIONS (%d)", pg.TotalCount), sb.String())
	p.PrintPaginator(pg)
}

func row(id, company, position, status, date string) string {
	return fmt.Sprintf("%s %s %s %s %s",
		pad(truncate(id, 12), 12),
		pad(truncate(company, 22), 22),
		pad(truncate(position, 28), 28),
		pad(truncate(status, 13), 13),
		date,
	)
}

// PrintPaginator outputs "Page p of n" and the page numbers, marking the
// current one. Nothing is printed when there are no pages.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintPaginator(pg viewmodel.Pagination) {
	if !pg.HasPages() {
		return
	}
	nums := make([]string, 0, pg.TotalPages)
	for _, n := range pg.PageNumbers() {
		if n == pg.CurrentPage {
			nums = append(nums, fmt.Sprintf("[%d]", n))
			continue
		}
		nums = append(nums, fmt.Sprint(n))
	}
	fmt.Fprintf(p.out, "Page %d of %d  %s\n", pg.CurrentPage, pg.TotalPages, strings.Join(nums, " "))
}

// PrintApplication outputs every field of one record.
func (p *Printer) PrintApplication(a types.Application) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:        %s\n", a.ID))
	sb.WriteString(fmt.Sprintf("Company:   %s\n", a.Company))
	sb.WriteString(fmt.Sprintf("Position:  %s\n", a.Position))
	sb.WriteString(fmt.Sprintf("Status:    %s\n", a.Status.Label()))
	sb.WriteString(fmt.Sprintf("Applied:   %s", a.DateApplied))
	if a.Notes != "" {
		sb.WriteString("\n\nNotes:\n")
		for _, line := range strings.Split(a.Notes, "\n") {
			sb.WriteString("  " + line + "\n")
		}
	}

	p.printBox(boxWidth, "APPLICATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCounts outputs the per-status tally used by the status filter.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintCounts(c viewmodel.Counts) {
	parts := []string{fmt.Sprintf("All (%d)", c.All)}
	for _, s := range types.Statuses() {
		parts = append(parts, fmt.Sprintf("%s (%d)", s.Label(), c.ByStatus[s]))
	}
	fmt.Fprintln(p.out, strings.Join(parts, " | "))
}

// PrintStats outputs the dashboard summary.
func (p *Printer) PrintStats(st viewmodel.Stats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total:          %d\n", st.Total))
	sb.WriteString(fmt.Sprintf("Active:         %d\n", st.Active))
	sb.WriteString(fmt.Sprintf("Pending:        %d\n", st.Pending))
	sb.WriteString(fmt.Sprintf("Interviewing:   %d\n", st.Interviewing))
	sb.WriteString(fmt.Sprintf("Offers:         %d\n", st.Offers))
	sb.WriteString(fmt.Sprintf("Rejected:       %d\n", st.Rejected))
	sb.WriteString(fmt.Sprintf("Withdrawn:      %d\n", st.Withdrawn))
	sb.WriteString(fmt.Sprintf("Last %d days:   %d\n", viewmodel.RecentWindowDays, st.Recent))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Success rate:   %.1f%%\n", st.SuccessRate))
	sb.WriteString(fmt.Sprintf("Interview rate: %.1f%%\n", st.InterviewRate))
	sb.WriteString("\nBy status:\n")
	for _, s := range types.Statuses() {
		sb.WriteString(fmt.Sprintf("  • %-12s %d\n", s.Label(), st.Counts.ByStatus[s]))
	}

	p.printBox(boxWidth, "APPLICATION STATS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStatuses outputs the status taxonomy in order.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStatuses() {
	for _, s := range types.Statuses() {
		fmt.Fprintf(p.out, "%-12s %s\n", s, s.Label())
	}
}

// PrintResult outputs the notification for an operation outcome, with one
// line per invalid field and a warning line when durability or refresh
// failed.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintResult(res tracker.Result) {
	if res.OK() {
		fmt.Fprintf(p.out, "✓ %s\n", res.Message())
		if res.Warning != nil {
			fmt.Fprintf(p.out, "⚠ %v\n", res.Warning)
		}
		return
	}
	fmt.Fprintf(p.out, "✗ %s\n", res.Message())
	for _, fe := range res.FieldErrors() {
		fmt.Fprintf(p.out, "  • %s: %s\n", fe.Field, fe.Message)
	}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
