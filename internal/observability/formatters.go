// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/skills"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
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
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCandidate outputs a human-readable summary of the candidate being matched.
func (p *Printer) PrintCandidate(candidate *db.Candidate, parsed skills.SkillSet) {
	if candidate == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:     %s\n", candidate.Name))
	if candidate.FieldOfStudy != "" {
		sb.WriteString(fmt.Sprintf("Field:    %s\n", candidate.FieldOfStudy))
	}
	sb.WriteString("\n")

	if len(parsed) > 0 {
		sb.WriteString("Skills:\n")
		count := min(len(parsed), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", parsed[i]))
		}
		if len(parsed) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(parsed)-maxItemsToShow))
		}
	}

	p.printBox("CANDIDATE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatches outputs the top N match records ranked by score.
func (p *Printer) PrintMatches(records []db.MatchRecord) {
	if len(records) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO MATCHES FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total matches: %d\n\n", len(records)))

	count := min(len(records), maxItemsToShow)
	for i := 0; i < count; i++ {
		record := records[i]
		sb.WriteString(fmt.Sprintf("#%d  job %s\n", i+1, record.JobID))
		sb.WriteString(fmt.Sprintf("    Score: %.1f\n", record.Score))
		explanation := record.Explanation
		if len(explanation) > 45 {
			explanation = explanation[:42] + "..."
		}
		if explanation != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", explanation))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(records) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more matches", len(records)-maxItemsToShow))
	}

	p.printBox("RANKED MATCHES", sb.String())
}

// PrintMatchDetail outputs a single match record in full.
func (p *Printer) PrintMatchDetail(record *db.MatchRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match:    %s\n", record.ID))
	sb.WriteString(fmt.Sprintf("Job:      %s\n", record.JobID))
	sb.WriteString(fmt.Sprintf("Score:    %.1f\n", record.Score))
	sb.WriteString(fmt.Sprintf("Viewed:   %t\n", record.Viewed))
	sb.WriteString("\n")

	for _, line := range wrapText(record.Explanation, boxWidth-6) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	p.printBox("MATCH DETAIL", strings.TrimSuffix(sb.String(), "\n"))
}

// wrapText splits text into lines no longer than width, breaking on spaces.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	lines = append(lines, current)
	return lines
}
