package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/skills"
)

func TestPrintCandidate(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	candidate := &db.Candidate{
		Name:         "Ada Lovelace",
		FieldOfStudy: "Mathematics",
	}
	p.PrintCandidate(candidate, skills.SkillSet{"Python", "SQL", "Go", "Rust", "C", "Haskell", "OCaml"})

	out := buf.String()
	assert.Contains(t, out, "CANDIDATE")
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "Python")
	assert.Contains(t, out, "and 2 more")
}

func TestPrintCandidate_NilIsNoop(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCandidate(nil, nil)
	assert.Empty(t, buf.String())
}

func TestPrintMatches(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	records := []db.MatchRecord{
		{ID: uuid.New(), JobID: uuid.New(), Score: 95.0, Explanation: "Strong overlap on core skills."},
		{ID: uuid.New(), JobID: uuid.New(), Score: 40.0, Explanation: strings.Repeat("x", 100)},
	}
	p.PrintMatches(records)

	out := buf.String()
	assert.Contains(t, out, "RANKED MATCHES")
	assert.Contains(t, out, "Total matches: 2")
	assert.Contains(t, out, "95.0")
	// Long explanations are truncated with a marker.
	assert.Contains(t, out, "...")
}

func TestPrintMatches_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMatches(nil)
	assert.Contains(t, buf.String(), "NO MATCHES FOUND")
}

func TestPrintMatchDetail(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	record := &db.MatchRecord{
		ID:          uuid.New(),
		JobID:       uuid.New(),
		Score:       72.5,
		Explanation: "The candidate covers most of the required stack and has directly relevant project experience.",
		MatchedAt:   time.Now().UTC(),
		Viewed:      true,
	}
	p.PrintMatchDetail(record)

	out := buf.String()
	assert.Contains(t, out, "MATCH DETAIL")
	assert.Contains(t, out, "72.5")
	assert.Contains(t, out, "Viewed:   true")
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 9)
	assert.Equal(t, []string{"one two", "three", "four five"}, lines)

	assert.Nil(t, wrapText("", 10))
}
