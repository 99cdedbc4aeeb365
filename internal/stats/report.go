// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"

	"github.com/verte-zerg/digitdrill/internal/model"
)

// Source is the journal data a report is built from.
type Source interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
	ListSuccesses(ctx context.Context, sessionIDs []string) ([]model.SuccessSample, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions  []model.SessionAggregate
	Successes []model.SuccessSample
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src Source, cfg model.StatsConfig) (Report, error) {
	sessions, err := src.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	successes, err := src.ListSuccesses(ctx, sessionIDs(sessions))
	if err != nil {
		return Report{}, err
	}
	return Report{
		Sessions:  sessions,
		Successes: successes,
	}, nil
}

func sessionIDs(sessions []model.SessionAggregate) []string {
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}
