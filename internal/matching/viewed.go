package matching

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/db"
)

// Tracker handles the viewed-state transition of match records.
type Tracker struct {
	matches MatchStore
	logger  *zap.Logger
}

// NewTracker creates a viewed-state tracker. A nil logger is replaced with a
// no-op logger.
func NewTracker(matches MatchStore, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{matches: matches, logger: log}
}

// MarkViewed marks a match record as seen by its owning candidate.
//
// Returns ErrMatchNotFound when the record does not exist and ErrNotMatchOwner
// when candidateID does not own it. Marking an already-viewed record is an
// idempotent success.
func (t *Tracker) MarkViewed(ctx context.Context, matchID, candidateID uuid.UUID) (*db.MatchRecord, error) {
	record, err := t.matches.GetMatchByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match record: %w", err)
	}
	if record == nil {
		return nil, &ErrMatchNotFound{ID: matchID}
	}

	if record.CandidateID != candidateID {
		return nil, &ErrNotMatchOwner{MatchID: matchID, CandidateID: candidateID}
	}

	if record.Viewed {
		return record, nil
	}

	if err := t.matches.SetMatchViewed(ctx, matchID); err != nil {
		return nil, fmt.Errorf("failed to mark match viewed: %w", err)
	}

	record.Viewed = true
	t.logger.Debug("match marked viewed",
		zap.String("match_id", matchID.String()),
		zap.String("candidate_id", candidateID.String()))

	return record, nil
}
