package checkpoint

import (
	"context"
	"fmt"
	"time"

	"videobatch/pkg/config"
	errs "videobatch/pkg/errors"
	"videobatch/pkg/logger"
	"videobatch/pkg/models"
)

// Span is a calendar length added with time.AddDate
type Span struct {
	Years  int
	Months int
	Days   int
}

// Policy decides where windows start and how far they may reach
type Policy struct {
	// Epoch is the start of a channel's first window
	Epoch time.Time
	// MaxSpan caps the length of every window
	MaxSpan Span
	// Location is the zone in which calendar arithmetic is done
	Location *time.Location
	// ProgramID is stamped on every recorded window
	ProgramID string
}

// PolicyFromConfig builds a Policy from the batch section of the config
func PolicyFromConfig(cfg config.BatchConfig) (Policy, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Policy{}, err
	}
	epoch, err := cfg.EpochTime()
	if err != nil {
		return Policy{}, err
	}
	return Policy{
		Epoch:     epoch,
		MaxSpan:   Span{Years: cfg.MaxSpan.Years, Months: cfg.MaxSpan.Months, Days: cfg.MaxSpan.Days},
		Location:  loc,
		ProgramID: cfg.ProgramID,
	}, nil
}

// NextWindow computes the window that follows latest. The window starts where
// latest ended (or at the epoch) and ends at start+MaxSpan or now, whichever
// is earlier. When now precedes the start the window is empty.
func NextWindow(latest *models.BatchWindow, now time.Time, policy Policy) models.Window {
	loc := policy.Location
	if loc == nil {
		loc = time.UTC
	}

	start := policy.Epoch
	if latest != nil {
		start = latest.LastDatetime
	}
	start = start.In(loc)
	now = now.In(loc)

	end := start.AddDate(policy.MaxSpan.Years, policy.MaxSpan.Months, policy.MaxSpan.Days)
	if now.Before(end) {
		end = now
	}
	if end.Before(start) {
		end = start
	}

	return models.Window{Start: start, End: end}
}

// WindowTx is the part of a store transaction the advancer needs
type WindowTx interface {
	FindLatestWindow(ctx context.Context, channelID string) (*models.BatchWindow, error)
	InsertWindow(ctx context.Context, window *models.BatchWindow) error
}

// Advancer records each channel's next window before its videos are fetched
type Advancer struct {
	policy Policy
	logger logger.Logger
}

// NewAdvancer creates an Advancer for policy
func NewAdvancer(policy Policy, log logger.Logger) *Advancer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Advancer{policy: policy, logger: log}
}

// Advance computes the channel's next window and appends it inside tx.
// The write only becomes durable if the caller commits tx.
func (a *Advancer) Advance(ctx context.Context, tx WindowTx, channelID string, now time.Time) (models.Window, error) {
	latest, err := tx.FindLatestWindow(ctx, channelID)
	if err != nil {
		return models.Window{}, errs.Checkpoint(channelID, fmt.Errorf("find latest window: %w", err))
	}

	window := NextWindow(latest, now, a.policy)

	record := &models.BatchWindow{
		ChannelID:     channelID,
		FirstDatetime: window.Start,
		LastDatetime:  window.End,
		Audit:         models.NewAudit(a.policy.ProgramID, now.In(window.Start.Location())),
	}
	if err := tx.InsertWindow(ctx, record); err != nil {
		return models.Window{}, errs.Checkpoint(channelID, err)
	}

	if latest == nil {
		a.logger.InfoWithFields("No previous window, starting from epoch", map[string]interface{}{
			"channel_id": channelID,
			"epoch":      window.Start.Format(time.RFC3339),
		})
	}
	if window.Empty() {
		a.logger.WarnWithFields("Window is empty, clock may be behind the last recorded window", map[string]interface{}{
			"channel_id": channelID,
			"start":      window.Start.Format(time.RFC3339),
			"now":        now.Format(time.RFC3339),
		})
	}
	a.logger.DebugWithFields("Batch window recorded", map[string]interface{}{
		"channel_id": channelID,
		"event_id":   record.EventID,
	})

	return window, nil
}
