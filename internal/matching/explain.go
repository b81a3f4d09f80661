package matching

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/prompts"
	"github.com/jonathan/jobmatch/internal/skills"
)

// FallbackExplanation is stored when explanation generation fails.
const FallbackExplanation = "No match details available."

// truncationMarker is appended when a generated explanation is cut to fit
// the storage limit.
const truncationMarker = "..."

// ExplanationGenerator produces the narrative text accompanying a match
// score. It runs for every match regardless of which scorer produced the
// final score, and never returns an error: failures yield FallbackExplanation.
type ExplanationGenerator struct {
	client llm.Client
	logger *zap.Logger
}

// NewExplanationGenerator creates an explanation generator. A nil logger is
// replaced with a no-op logger.
func NewExplanationGenerator(client llm.Client, log *zap.Logger) *ExplanationGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExplanationGenerator{client: client, logger: log}
}

// Generate asks the collaborator for a match explanation, truncated to the
// storage limit. matched is the subsequence of required skills the candidate
// covered; the missing set is derived from it.
func (g *ExplanationGenerator) Generate(ctx context.Context, job *db.JobPosting, candidate *db.Candidate, candidateSkills skills.SkillSet, required skills.SkillSet, matched []string, score float64) string {
	prompt := buildExplanationPrompt(job, candidate, candidateSkills, required, matched, score)

	reply, err := g.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		g.logger.Warn("explanation generation failed, using fallback text",
			zap.String("job_id", job.ID.String()),
			zap.Error(&APICallError{Message: "explanation generation", Cause: err}))
		return FallbackExplanation
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		g.logger.Warn("empty explanation reply, using fallback text",
			zap.String("job_id", job.ID.String()))
		return FallbackExplanation
	}

	return truncateExplanation(reply, db.MaxExplanationLength)
}

// buildExplanationPrompt embeds the full match context into the explanation template.
func buildExplanationPrompt(job *db.JobPosting, candidate *db.Candidate, candidateSkills skills.SkillSet, required skills.SkillSet, matched []string, score float64) string {
	matchedStr := strings.Join(matched, ", ")
	if matchedStr == "" {
		matchedStr = "None"
	}

	missingStr := strings.Join(MissingSkills(required, matched), ", ")
	if missingStr == "" {
		missingStr = "None"
	}

	fieldOfStudy := candidate.FieldOfStudy
	if fieldOfStudy == "" {
		fieldOfStudy = notSpecified
	}

	candidateSkillsStr := candidateSkills.String()
	if candidateSkillsStr == "" {
		candidateSkillsStr = notSpecified
	}

	requiredStr := required.String()
	if requiredStr == "" {
		requiredStr = notSpecified
	}

	template := prompts.MustGet("matching.json", "explain-match")
	return prompts.Format(template, map[string]string{
		"JobTitle":        job.Title,
		"JobDescription":  job.Description,
		"RequiredSkills":  requiredStr,
		"CandidateSkills": candidateSkillsStr,
		"FieldOfStudy":    fieldOfStudy,
		"MatchedSkills":   matchedStr,
		"MissingSkills":   missingStr,
		"Score":           fmt.Sprintf("%.0f", score),
	})
}

// truncateExplanation cuts text to at most limit characters, replacing the
// tail with the truncation marker when cut.
func truncateExplanation(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-len(truncationMarker)]) + truncationMarker
}
