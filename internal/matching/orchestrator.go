package matching

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/skills"
)

// DefaultMaxConcurrentScores caps concurrent per-job scoring. Each job issues
// up to two collaborator calls, so this bounds outbound request pressure.
const DefaultMaxConcurrentScores = 4

// OrchestratorConfig holds tunable matching policy. Zero values fall back to
// the package defaults.
type OrchestratorConfig struct {
	// AcceptanceThreshold is the deterministic percentage at or above which
	// the overlap score is final (no semantic escalation).
	AcceptanceThreshold float64
	// MaxConcurrentScores bounds parallel per-job scoring.
	MaxConcurrentScores int
}

// Orchestrator computes, persists, and ranks match records for a candidate
// against the active job catalog.
type Orchestrator struct {
	candidates CandidateStore
	jobs       JobStore
	fallback   JobLister
	matches    MatchStore
	scorer     *SemanticScorer
	explainer  *ExplanationGenerator
	logger     *zap.Logger

	threshold     float64
	maxConcurrent int
	now           func() time.Time
}

// NewOrchestrator wires a match orchestrator. fallback may be nil, in which
// case the secondary catalog lookup is skipped. A nil logger is replaced with
// a no-op logger.
func NewOrchestrator(candidates CandidateStore, jobs JobStore, fallback JobLister, matches MatchStore, scorer *SemanticScorer, explainer *ExplanationGenerator, log *zap.Logger, cfg OrchestratorConfig) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}

	threshold := cfg.AcceptanceThreshold
	if threshold == 0 {
		threshold = DefaultAcceptanceThreshold
	}

	maxConcurrent := cfg.MaxConcurrentScores
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentScores
	}

	return &Orchestrator{
		candidates:    candidates,
		jobs:          jobs,
		fallback:      fallback,
		matches:       matches,
		scorer:        scorer,
		explainer:     explainer,
		logger:        log,
		threshold:     threshold,
		maxConcurrent: maxConcurrent,
		now:           time.Now,
	}
}

// WithClock overrides the orchestrator's time source. Used in tests.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// ComputeMatches scores the candidate against every active job, persists one
// match record per job, and returns the freshly created records sorted by
// score descending.
//
// A failure while processing a single job is logged and skipped; it never
// aborts the rest of the batch. Only candidate resolution and catalog-level
// store failures surface to the caller. An empty catalog (after one fallback
// listing attempt) returns an empty slice, not an error.
func (o *Orchestrator) ComputeMatches(ctx context.Context, candidateID uuid.UUID) ([]db.MatchRecord, error) {
	candidate, err := o.candidates.GetCandidateByID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve candidate: %w", err)
	}
	if candidate == nil {
		return nil, &ErrCandidateNotFound{ID: candidateID}
	}

	jobs, err := o.jobs.ListActiveJobPostings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active jobs: %w", err)
	}

	if len(jobs) == 0 && o.fallback != nil {
		fallbackJobs, err := o.fallback.ListActiveJobs(ctx)
		if err != nil {
			o.logger.Warn("fallback job listing failed", zap.Error(err))
		} else {
			jobs = fallbackJobs
		}
	}

	if len(jobs) == 0 {
		o.logger.Info("no active jobs available for matching",
			zap.String("candidate_id", candidateID.String()))
		return []db.MatchRecord{}, nil
	}

	// Parse the candidate's skills once for the whole batch.
	candidateSkills := skills.Parse(candidate.Skills)

	var (
		mu      sync.Mutex
		records = make([]db.MatchRecord, 0, len(jobs))
	)

	g := new(errgroup.Group)
	g.SetLimit(o.maxConcurrent)

	for _, job := range jobs {
		g.Go(func() error {
			record, err := o.processJob(ctx, candidate, candidateSkills, &job)
			if err != nil {
				// Isolation: one job's failure must not abort the batch.
				o.logger.Error("match processing failed for job, skipping",
					zap.String("candidate_id", candidateID.String()),
					zap.String("job_id", job.ID.String()),
					zap.Error(err))
				return nil
			}
			mu.Lock()
			records = append(records, *record)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are logged and skipped

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})

	o.logger.Info("match batch complete",
		zap.String("candidate_id", candidateID.String()),
		zap.Int("jobs", len(jobs)),
		zap.Int("records", len(records)))

	return records, nil
}

// processJob scores one job and persists the resulting match record.
func (o *Orchestrator) processJob(ctx context.Context, candidate *db.Candidate, candidateSkills skills.SkillSet, job *db.JobPosting) (*db.MatchRecord, error) {
	required := skills.Parse(job.RequiredSkills)

	deterministic, matched := OverlapScore(required, candidateSkills)

	score := deterministic
	if deterministic < o.threshold {
		score = o.scorer.Score(ctx, job, candidate, candidateSkills, deterministic)
	}
	if score < MinMatchScore {
		score = MinMatchScore
	}

	// Explanation generation always runs, whichever scorer produced the score.
	explanation := o.explainer.Generate(ctx, job, candidate, candidateSkills, required, matched, score)

	record, err := o.matches.SaveMatch(ctx, &db.MatchCreateInput{
		CandidateID: candidate.ID,
		JobID:       job.ID,
		Score:       score,
		Explanation: explanation,
		MatchedAt:   o.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist match record: %w", err)
	}

	return record, nil
}
