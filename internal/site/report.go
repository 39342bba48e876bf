package site

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	sperrors "github.com/atterbury/sitepress/internal/errors"
	"github.com/atterbury/sitepress/internal/logfields"
)

// ReportIssue records one failing item and its reason.
type ReportIssue struct {
	Path     string
	Category sperrors.ErrorCategory
	Message  string
}

// Report summarizes one build pass. Per-item errors are collected here
// and reported together after a full pass; no error is silently swallowed.
type Report struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration

	Rendered int
	Skipped  int
	Issues   []ReportIssue
}

func newReport() *Report {
	return &Report{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
}

func (r *Report) addIssue(path string, err error) {
	r.Issues = append(r.Issues, ReportIssue{
		Path:     path,
		Category: sperrors.GetCategory(err),
		Message:  err.Error(),
	})
}

// HasFailures reports whether any item failed during the pass.
func (r *Report) HasFailures() bool {
	return len(r.Issues) > 0
}

// LogSummary emits the user-visible outcome: totals plus one line per
// failing item with its path and reason.
func (r *Report) LogSummary() {
	slog.Info("Build finished",
		logfields.BuildID(r.ID),
		slog.Int("rendered", r.Rendered),
		slog.Int("skipped", r.Skipped),
		slog.Int("failed", len(r.Issues)),
		logfields.DurationMS(float64(r.Duration.Milliseconds())),
	)
	for _, issue := range r.Issues {
		slog.Error("Item failed",
			logfields.Path(issue.Path),
			slog.String("category", string(issue.Category)),
			slog.String("reason", issue.Message),
		)
	}
}
