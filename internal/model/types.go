// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Deadline     time.Duration
	AdvanceDelay time.Duration
	Record       bool
}

// LogConfig defines the debug log destination and rotation.
type LogConfig struct {
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionInfo describes one run of the practice screen.
type SessionInfo struct {
	ID         string
	StartedAt  time.Time
	DeadlineMs int64
}

// AttemptRecord is one journaled submission or confirmation.
type AttemptRecord struct {
	SessionID    string
	CreatedAt    time.Time
	Round        int
	Challenge    string
	Input        string
	SelectedDate string
	Outcome      string
	ElapsedMs    int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID     string
	StartedAt     time.Time
	DeadlineMs    int64
	Attempts      int
	Successes     int
	Timeouts      int
	SuccessSumMs  int64
	BestSuccessMs int64
}

// SuccessSample is the duration of one successful round.
type SuccessSample struct {
	SessionID string
	CreatedAt time.Time
	ElapsedMs int64
}
