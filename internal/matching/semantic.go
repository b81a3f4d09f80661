package matching

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/logger"
	"github.com/jonathan/jobmatch/internal/prompts"
	"github.com/jonathan/jobmatch/internal/skills"
)

// Scoring policy constants. These mirror the product's matching policy and
// are deliberately named rather than inlined.
const (
	// DefaultAcceptanceThreshold is the deterministic percentage at or above
	// which the overlap score is accepted as final. Below it the semantic
	// scorer is consulted.
	DefaultAcceptanceThreshold = 40.0

	// MinMatchScore is the floor for any persisted match score. An attempted
	// match is never worth zero.
	MinMatchScore = 1.0

	// MaxMatchScore is the ceiling for any match score.
	MaxMatchScore = 100.0
)

// notSpecified is the prompt placeholder for absent candidate/job fields.
const notSpecified = "Not specified"

// SemanticScorer produces an LLM-assessed compatibility score for weak
// deterministic signals. It never returns an error: every failure mode
// degrades to max(deterministic, MinMatchScore).
type SemanticScorer struct {
	client llm.Client
	logger *zap.Logger
}

// NewSemanticScorer creates a semantic scorer. A nil logger is replaced with
// a no-op logger.
func NewSemanticScorer(client llm.Client, log *zap.Logger) *SemanticScorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &SemanticScorer{client: client, logger: log}
}

// Score asks the collaborator for a compatibility score and clamps the reply
// into [MinMatchScore, MaxMatchScore]. On any failure (call error, empty or
// non-numeric reply) it returns max(deterministic, MinMatchScore) instead of
// propagating the error.
func (s *SemanticScorer) Score(ctx context.Context, job *db.JobPosting, candidate *db.Candidate, candidateSkills skills.SkillSet, deterministic float64) float64 {
	fallback := deterministic
	if fallback < MinMatchScore {
		fallback = MinMatchScore
	}

	prompt := buildScorePrompt(job, candidate, candidateSkills)

	reply, err := s.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		apiErr := &APICallError{Message: "semantic scoring", Cause: err}
		s.logger.Warn("semantic scoring failed, falling back to deterministic score",
			zap.String("job_id", job.ID.String()),
			zap.Float64("fallback_score", fallback),
			zap.Error(apiErr))
		return fallback
	}

	value, err := parseScoreReply(reply)
	if err != nil {
		s.logger.Warn("unparsable semantic score reply, falling back to deterministic score",
			zap.String("job_id", job.ID.String()),
			zap.String("reply", logger.TruncateForLog(reply, 120)),
			zap.Float64("fallback_score", fallback),
			zap.Error(err))
		return fallback
	}

	return clampScore(value)
}

// buildScorePrompt embeds job and candidate context into the scoring template.
func buildScorePrompt(job *db.JobPosting, candidate *db.Candidate, candidateSkills skills.SkillSet) string {
	resumeText := notSpecified
	if candidate.ResumeText != nil && strings.TrimSpace(*candidate.ResumeText) != "" {
		resumeText = *candidate.ResumeText
	}

	fieldOfStudy := candidate.FieldOfStudy
	if fieldOfStudy == "" {
		fieldOfStudy = notSpecified
	}

	candidateSkillsStr := candidateSkills.String()
	if candidateSkillsStr == "" {
		candidateSkillsStr = notSpecified
	}

	requiredSkills := skills.Parse(job.RequiredSkills).String()
	if requiredSkills == "" {
		requiredSkills = notSpecified
	}

	template := prompts.MustGet("matching.json", "semantic-score")
	return prompts.Format(template, map[string]string{
		"JobTitle":        job.Title,
		"JobDescription":  job.Description,
		"RequiredSkills":  requiredSkills,
		"CandidateSkills": candidateSkillsStr,
		"FieldOfStudy":    fieldOfStudy,
		"ResumeText":      resumeText,
	})
}

// parseScoreReply extracts a floating-point score from the collaborator's
// reply. The prompt demands a bare number, but replies occasionally carry
// stray tokens or punctuation, so the first parseable token wins.
func parseScoreReply(reply string) (float64, error) {
	fields := strings.Fields(reply)
	if len(fields) == 0 {
		return 0, &ParseError{Message: "empty score reply"}
	}

	for _, field := range fields {
		token := strings.Trim(field, "%,.")
		if token == "" {
			continue
		}
		if value, err := strconv.ParseFloat(token, 64); err == nil {
			return value, nil
		}
	}

	return 0, &ParseError{Message: fmt.Sprintf("no numeric token in reply %q", strings.TrimSpace(reply))}
}

// clampScore forces a score into [MinMatchScore, MaxMatchScore].
func clampScore(score float64) float64 {
	if score < MinMatchScore {
		return MinMatchScore
	}
	if score > MaxMatchScore {
		return MaxMatchScore
	}
	return score
}
