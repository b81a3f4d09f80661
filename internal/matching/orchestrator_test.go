package matching

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/llm"
)

// -----------------------------------------------------------------------------
// Fakes
// -----------------------------------------------------------------------------

type fakeCandidateStore struct {
	candidate *db.Candidate
	err       error
}

func (f *fakeCandidateStore) GetCandidateByID(_ context.Context, id uuid.UUID) (*db.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.candidate == nil || f.candidate.ID != id {
		return nil, nil
	}
	return f.candidate, nil
}

type fakeJobStore struct {
	jobs []db.JobPosting
	err  error
}

func (f *fakeJobStore) ListActiveJobPostings(_ context.Context) ([]db.JobPosting, error) {
	return f.jobs, f.err
}

type fakeJobLister struct {
	jobs  []db.JobPosting
	err   error
	calls int
}

func (f *fakeJobLister) ListActiveJobs(_ context.Context) ([]db.JobPosting, error) {
	f.calls++
	return f.jobs, f.err
}

type fakeMatchStore struct {
	mu       sync.Mutex
	saved    []db.MatchRecord
	failJobs map[uuid.UUID]bool
	records  map[uuid.UUID]*db.MatchRecord
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{
		failJobs: make(map[uuid.UUID]bool),
		records:  make(map[uuid.UUID]*db.MatchRecord),
	}
}

func (f *fakeMatchStore) SaveMatch(_ context.Context, input *db.MatchCreateInput) (*db.MatchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failJobs[input.JobID] {
		return nil, errors.New("simulated persistence failure")
	}

	record := db.MatchRecord{
		ID:          uuid.New(),
		CandidateID: input.CandidateID,
		JobID:       input.JobID,
		Score:       input.Score,
		Explanation: input.Explanation,
		MatchedAt:   input.MatchedAt,
	}
	f.saved = append(f.saved, record)
	stored := record
	f.records[record.ID] = &stored
	return &record, nil
}

func (f *fakeMatchStore) GetMatchByID(_ context.Context, id uuid.UUID) (*db.MatchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (f *fakeMatchStore) ListMatchesByCandidate(_ context.Context, candidateID uuid.UUID) ([]db.MatchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.MatchRecord
	for _, record := range f.saved {
		if record.CandidateID == candidateID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeMatchStore) SetMatchViewed(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return errors.New("match record not found")
	}
	record.Viewed = true
	return nil
}

func (f *fakeMatchStore) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func job(title, requiredSkills string) db.JobPosting {
	return db.JobPosting{
		ID:             uuid.New(),
		Title:          title,
		Description:    "Description for " + title,
		RequiredSkills: requiredSkills,
		Active:         true,
	}
}

func candidateWithSkills(rawSkills string) *db.Candidate {
	return &db.Candidate{
		ID:           uuid.New(),
		Name:         "Jordan",
		Email:        "jordan@example.com",
		FieldOfStudy: "Computer Science",
		Skills:       rawSkills,
	}
}

// newTestOrchestrator wires an orchestrator around the fakes, counting
// semantic (TierLite) and explanation (TierStandard) collaborator calls.
func newTestOrchestrator(candidates *fakeCandidateStore, jobs *fakeJobStore, fallback JobLister, matches *fakeMatchStore, client llm.Client) *Orchestrator {
	scorer := NewSemanticScorer(client, nil)
	explainer := NewExplanationGenerator(client, nil)
	return NewOrchestrator(candidates, jobs, fallback, matches, scorer, explainer, nil, OrchestratorConfig{})
}

type tierCounts struct {
	lite     atomic.Int32
	standard atomic.Int32
}

func countingClient(counts *tierCounts, scoreReply string) *MockLLMClient {
	return &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
			switch tier {
			case llm.TierLite:
				counts.lite.Add(1)
				return scoreReply, nil
			default:
				counts.standard.Add(1)
				return "A generated explanation.", nil
			}
		},
	}
}

// -----------------------------------------------------------------------------
// Tests
// -----------------------------------------------------------------------------

func TestComputeMatches_CandidateNotFound(t *testing.T) {
	orchestrator := newTestOrchestrator(
		&fakeCandidateStore{}, &fakeJobStore{}, nil, newFakeMatchStore(), &MockLLMClient{})

	_, err := orchestrator.ComputeMatches(context.Background(), uuid.New())

	var notFound *ErrCandidateNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestComputeMatches_CandidateStoreFailureSurfaces(t *testing.T) {
	orchestrator := newTestOrchestrator(
		&fakeCandidateStore{err: errors.New("connection reset")},
		&fakeJobStore{}, nil, newFakeMatchStore(), &MockLLMClient{})

	_, err := orchestrator.ComputeMatches(context.Background(), uuid.New())
	assert.ErrorContains(t, err, "failed to resolve candidate")
}

func TestComputeMatches_PerfectOverlapSkipsSemanticScorer(t *testing.T) {
	candidate := candidateWithSkills("Java, Spring Boot, React")
	posting := job("Java Developer", "Java,Spring Boot,React")

	var counts tierCounts
	matches := newFakeMatchStore()
	orchestrator := newTestOrchestrator(
		&fakeCandidateStore{candidate: candidate},
		&fakeJobStore{jobs: []db.JobPosting{posting}},
		nil, matches, countingClient(&counts, "10"))

	records, err := orchestrator.ComputeMatches(context.Background(), candidate.ID)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 100.0, records[0].Score)
	assert.Equal(t, int32(0), counts.lite.Load(), "semantic scorer must not run at 100%% overlap")
	assert.Equal(t, int32(1), counts.standard.Load(), "explanation always runs")
	assert.Equal(t, 1, matches.savedCount())
}

func TestComputeMatches_WeakOverlapEscalatesToSemanticScorer(t *testing.T) {
	candidate := candidateWithSkills("Python,R")
	posting := job("Java Developer", "Java,Spring Boot,React")

	var counts tierCounts
	orchestrator := newTestOrchestrator(
		&fakeCandidateStore{candidate: candidate},
		&fakeJobStore{jobs: []db.JobPosting{posting}},
		nil, newFakeMatchStore(), countingClient(&counts, "62"))

	records, err := orchestrator.ComputeMatches(context.Background(), candidate.ID)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 62.0, records[0].Score)
	assert.Equal(t, int32(1), counts.lite.Load())
}

func TestComputeMatches_CollaboratorFailureYieldsFloorScore(t *testing.T) {
	candidate := candidateWithSkills("Python,R")
	posting := job("Java Developer", "Java,Spring Boot,React")

	failingClient := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "", errors.New("service unavailable")
		},
	}
	matches := newFakeMatchStore()
	orchestrator := newTestOrchestrator(
		&fakeCandidateStore{candidate: candidate},
		&fakeJobStore{jobs: []db.JobPosting{posting}},
		nil, matches, failingClient)

	records, err := orchestrator.ComputeMatches(context.Background(), candidate.ID)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, MinMatchScore, records[0].Score)
	assert.Equal(t, FallbackExplanation, records[0].Explanation)
	assert.Equal(t, 1, matches.savedCount(), "record persists even when every collaborator call fails")
}

func TestComputeMatches_ThresholdBoundaryAcceptsDeterministic(t *testing.T) {
	// 2 of 5 required skills matched: exactly the 40% threshold, accepted as final.
	candidate := candidateWithSkills("Java,React")
	posting := job("Full Stack", "Java,React,Kubernetes,Terraform,AWS")

	var counts tierCounts
	orchestrator := newTestOrchestrator(
		&fakeCandidateStore{candidate: candidate},
		&fakeJobStore{jobs: []db.JobPosting{posting}},
		nil, newFakeMatchStore(), countingClient(&counts, "99"))

	records, err := orchestrator.ComputeMatches(context.Background(), candidate.ID)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 40.0, records[0].Score)
	assert.Equal(t, int32(0), counts.lite.Load())
}

func TestComputeMatches_SortedByScoreDescending(t *testing.T) {
	candidate := candidateWithSkills("Java,Spring Boot,React")
	jobs := []db.JobPosting{
		job("No Overlap", "Haskell,Erlang"),        // deterministic 0, semantic 20
		job("Full Overlap", "Java,Spring Boot"),    // deterministic 100
		job("Half Overlap", "Java,Go,Rust,Scala"),  // deterministic 25, semantic 20
		job("Accepted Overlap", "Java,React,Rust"), // deterministic 66.6
	}

	var counts tierCounts
	orchestrator := newTestOrchestrator(
		&fakeCandidateStore{candidate: candidate},
		&fakeJobStore{jobs: jobs},
		nil, newFakeMatchStore(), countingClient(&counts, "20"))

	records, err := orchestrator.ComputeMatches(context.Background(), candidate.ID)

	require.NoError(t, err)
	require.Len(t, records, 4)
	for i := 1; i < len(records); i++ {
		assert.GreaterOrEqual(t, records[i-1].Score, records[i].Score,
			"records must be sorted by score descending")
	}
	assert.Equal(t, 100.0, records[0].Score)
}

func TestComputeMatches_SingleJobFailureDoesNotAbortBatch(t *testing.T) {
	candidate := candidateWithSkills("Java")
	healthy1 := job("Healthy One", "Java")
	poisoned := job("Poisoned", "Java")
	healthy2 := job("Healthy Two", "Java")

	matches := newFakeMatchStore()
	matches.failJobs[poisoned.ID] = true

	orchestrator := newTestOrchestrator(
		&fakeCandidateStore{candidate: candidate},
		&fakeJobStore{jobs: []db.JobPosting{healthy1, poisoned, healthy2}},
		nil, matches, &MockLLMClient{})

	records, err := orchestrator.ComputeMatches(context.Background(), candidate.ID)

	require.NoError(t, err)
	assert.Len(t, records, 2, "the poisoned job is skipped, the rest survive")
	assert.Equal(t, 2, matches.savedCount())
	for _, record := range records {
		assert.NotEqual(t, poisoned.ID, record.JobID)
	}
}

func TestComputeMatches_EmptyPrimaryUsesFallbackCatalog(t *testing.T) {
	candidate := candidateWithSkills("Go")
	fallback := &fakeJobLister{jobs: []db.JobPosting{job("Fallback Role", "Go")}}

	orchestrator := newTestOrchestrator(
		&fakeCandidateStore{candidate: candidate},
		&fakeJobStore{}, fallback, newFakeMatchStore(), &MockLLMClient{})

	records, err := orchestrator.ComputeMatches(context.Background(), candidate.ID)

	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, fallback.calls)
}

func TestComputeMatches_NonEmptyPrimarySkipsFallback(t *testing.T) {
	candidate := candidateWithSkills("Go")
	fallback := &fakeJobLister{}

	orchestrator := newTestOrchestrator(
		&fakeCandidateStore{candidate: candidate},
		&fakeJobStore{jobs: []db.JobPosting{job("Primary Role", "Go")}},
		fallback, newFakeMatchStore(), &MockLLMClient{})

	_, err := orchestrator.ComputeMatches(context.Background(), candidate.ID)

	require.NoError(t, err)
	assert.Equal(t, 0, fallback.calls)
}

func TestComputeMatches_NoJobsAnywhereIsNotAnError(t *testing.T) {
	candidate := candidateWithSkills("Go")

	// Fallback empty.
	orchestrator := newTestOrchestrator(
		&fakeCandidateStore{candidate: candidate},
		&fakeJobStore{}, &fakeJobLister{}, newFakeMatchStore(), &MockLLMClient{})
	records, err := orchestrator.ComputeMatches(context.Background(), candidate.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	// Fallback failing.
	orchestrator = newTestOrchestrator(
		&fakeCandidateStore{candidate: candidate},
		&fakeJobStore{}, &fakeJobLister{err: errors.New("connection refused")},
		newFakeMatchStore(), &MockLLMClient{})
	records, err = orchestrator.ComputeMatches(context.Background(), candidate.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

// Known characteristic: no uniqueness check on (candidate, job), so repeated
// runs accumulate duplicate records for the same pair.
func TestComputeMatches_RepeatedRunsAccumulateDuplicateRecords(t *testing.T) {
	candidate := candidateWithSkills("Java")
	posting := job("Java Developer", "Java")

	matches := newFakeMatchStore()
	orchestrator := newTestOrchestrator(
		&fakeCandidateStore{candidate: candidate},
		&fakeJobStore{jobs: []db.JobPosting{posting}},
		nil, matches, &MockLLMClient{})

	_, err := orchestrator.ComputeMatches(context.Background(), candidate.ID)
	require.NoError(t, err)
	_, err = orchestrator.ComputeMatches(context.Background(), candidate.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, matches.savedCount())
}

func TestComputeMatches_StampsMatchedAtFromClock(t *testing.T) {
	candidate := candidateWithSkills("Java")
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	matches := newFakeMatchStore()
	orchestrator := newTestOrchestrator(
		&fakeCandidateStore{candidate: candidate},
		&fakeJobStore{jobs: []db.JobPosting{job("Java Developer", "Java")}},
		nil, matches, &MockLLMClient{}).
		WithClock(func() time.Time { return fixed })

	records, err := orchestrator.ComputeMatches(context.Background(), candidate.ID)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, fixed, records[0].MatchedAt)
}

func TestComputeMatches_ScoreInvariantHolds(t *testing.T) {
	candidate := candidateWithSkills("Java")
	jobs := []db.JobPosting{
		job("Empty Requirements", ""), // deterministic 0, escalates
		job("Full Match", "Java"),
	}

	// Collaborator returns an absurd value; clamping must contain it.
	client := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
			if tier == llm.TierLite {
				return "-999", nil
			}
			return strings.Repeat("detail ", 400), nil
		},
	}

	orchestrator := newTestOrchestrator(
		&fakeCandidateStore{candidate: candidate},
		&fakeJobStore{jobs: jobs},
		nil, newFakeMatchStore(), client)

	records, err := orchestrator.ComputeMatches(context.Background(), candidate.ID)

	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.GreaterOrEqual(t, record.Score, MinMatchScore)
		assert.LessOrEqual(t, record.Score, MaxMatchScore)
		assert.LessOrEqual(t, len(record.Explanation), db.MaxExplanationLength)
	}
}
