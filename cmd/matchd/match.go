package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/catalog"
	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/matching"
	"github.com/jonathan/jobmatch/internal/observability"
	"github.com/jonathan/jobmatch/internal/skills"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Compute matches for a candidate",
	Long:  "Scores one candidate against every active job posting, persists the resulting match records, and prints them ranked by score.",
	RunE:  runMatch,
}

var (
	matchCandidateID string
	matchDatabaseURL string
	matchThreshold   float64
	matchWorkers     int
	matchVerbose     bool
)

func init() {
	matchCmd.Flags().StringVarP(&matchCandidateID, "candidate-id", "c", "", "Candidate ID (required)")
	matchCmd.Flags().StringVar(&matchDatabaseURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")
	matchCmd.Flags().Float64Var(&matchThreshold, "threshold", 0, "Deterministic score accepted without LLM escalation")
	matchCmd.Flags().IntVar(&matchWorkers, "max-concurrent", 0, "Cap on parallel per-job scoring")
	matchCmd.Flags().BoolVarP(&matchVerbose, "verbose", "v", false, "Print candidate and match summaries")

	if err := matchCmd.MarkFlagRequired("candidate-id"); err != nil {
		panic(fmt.Sprintf("failed to mark candidate-id flag as required: %v", err))
	}

	rootCmd.AddCommand(matchCmd)
}

func runMatch(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	candidateID, err := uuid.Parse(matchCandidateID)
	if err != nil {
		return fmt.Errorf("invalid candidate-id: %w", err)
	}

	if matchDatabaseURL == "" {
		matchDatabaseURL = os.Getenv("DATABASE_URL")
	}
	if matchDatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set (set DATABASE_URL environment variable or use --db-url flag)")
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	database, err := db.Connect(ctx, matchDatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	llmClient, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = llmClient.Close() }()

	log := zap.NewNop()
	fallback := catalog.NewClient(nil, os.Getenv("JOBS_FALLBACK_URL"))
	orchestrator := matching.NewOrchestrator(database, database, fallback, database,
		matching.NewSemanticScorer(llmClient, log),
		matching.NewExplanationGenerator(llmClient, log),
		log, matching.OrchestratorConfig{
			AcceptanceThreshold: matchThreshold,
			MaxConcurrentScores: matchWorkers,
		})

	var printer *observability.Printer
	if matchVerbose {
		printer = observability.NewPrinter(os.Stdout)
		candidate, err := database.GetCandidateByID(ctx, candidateID)
		if err != nil {
			return fmt.Errorf("failed to load candidate: %w", err)
		}
		if candidate != nil {
			printer.PrintCandidate(candidate, skills.Parse(candidate.Skills))
		}
	}

	records, err := orchestrator.ComputeMatches(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("failed to compute matches: %w", err)
	}

	if printer != nil {
		printer.PrintMatches(records)
		return nil
	}

	_, _ = fmt.Fprintf(os.Stdout, "Computed %d matches for candidate %s\n", len(records), candidateID)
	for _, record := range records {
		_, _ = fmt.Fprintf(os.Stdout, "  %s  score=%.1f  %s\n", record.JobID, record.Score, record.ID)
	}

	return nil
}
