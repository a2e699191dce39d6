package batch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"videobatch/pkg/checkpoint"
	errs "videobatch/pkg/errors"
	"videobatch/pkg/logger"
	"videobatch/pkg/models"
	"videobatch/pkg/store"
	"videobatch/pkg/youtube"
)

// Advancer records the next window for a channel inside a transaction
type Advancer interface {
	Advance(ctx context.Context, tx checkpoint.WindowTx, channelID string, now time.Time) (models.Window, error)
}

// Fetcher retrieves every search result for a channel within a window
type Fetcher interface {
	FetchAll(ctx context.Context, channelID string, window models.Window) ([]youtube.SearchItem, error)
}

// Options tune a Runner
type Options struct {
	// ProgramID is stamped on every video row
	ProgramID string
	// Location is the zone audit and publish timestamps are written in
	Location *time.Location
	// Channels restricts the run to these ids when non-empty
	Channels []string
}

// Runner processes every tracked channel once per run
type Runner struct {
	store    store.Store
	advancer Advancer
	fetcher  Fetcher
	opts     Options
	logger   logger.Logger
}

// NewRunner wires a Runner from its collaborators
func NewRunner(s store.Store, advancer Advancer, fetcher Fetcher, opts Options, log logger.Logger) *Runner {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Runner{
		store:    s,
		advancer: advancer,
		fetcher:  fetcher,
		opts:     opts,
		logger:   log,
	}
}

// Run processes each channel in its own transaction. A channel failure is
// logged and counted, and the run moves on to the next channel. The returned
// error is non-nil only when the channel list cannot be read or ctx is
// cancelled; in the latter case the partial result is returned with it.
func (r *Runner) Run(ctx context.Context, now time.Time) (Result, error) {
	runID := uuid.NewString()
	log := r.logger.WithField("run_id", runID)
	now = now.In(r.opts.Location)

	log.InfoWithFields("Video batch started", map[string]interface{}{
		"now":        now.Format(time.RFC3339),
		"program_id": r.opts.ProgramID,
	})

	channels, err := r.store.ListChannels(ctx)
	if err != nil {
		return Result{}, errs.Bootstrap("failed to list channels", err)
	}
	channels = r.filter(channels, log)

	var result Result
	for _, channel := range channels {
		if err := ctx.Err(); err != nil {
			log.WarnWithFields("Run cancelled, remaining channels skipped", map[string]interface{}{
				"processed": result.Total(),
				"remaining": len(channels) - result.Total(),
			})
			return result, err
		}

		chLog := logger.ForChannel(log, channel)
		chLog.Info("Channel started")

		count, err := r.processChannel(ctx, channel, now, chLog)
		if err != nil {
			result = result.withFailure()
			kind, _ := errs.KindOf(err)
			chLog.WithError(err).WithField("error_kind", string(kind)).Error("Channel failed, changes rolled back")
			continue
		}

		result = result.withSuccess()
		chLog.InfoWithFields("Channel completed", map[string]interface{}{
			"videos": count,
		})
	}

	log.InfoWithFields(result.Summary(), map[string]interface{}{
		"total":   result.Total(),
		"success": result.Success,
		"failed":  result.Failed,
	})
	return result, nil
}

// processChannel advances, fetches and persists one channel atomically
func (r *Runner) processChannel(ctx context.Context, channel models.Channel, now time.Time, log logger.Logger) (int, error) {
	var saved int

	err := store.WithTx(ctx, r.store, func(tx store.Tx) error {
		window, err := r.advancer.Advance(ctx, tx, channel.ChannelID, now)
		if err != nil {
			return err
		}
		logger.LogWindow(log, window, r.opts.Location)

		items, err := r.fetcher.FetchAll(ctx, channel.ChannelID, window)
		if err != nil {
			return err
		}
		log.InfoWithFields("Items fetched", map[string]interface{}{
			"items": len(items),
		})

		videos := r.toVideos(channel.ChannelID, items, now, log)
		if err := tx.SaveVideos(ctx, videos); err != nil {
			return errs.Persist(channel.ChannelID, err)
		}
		saved = len(videos)
		return nil
	})
	if err != nil {
		if _, typed := errs.KindOf(err); !typed {
			err = errs.Persist(channel.ChannelID, err)
		}
		return 0, err
	}
	return saved, nil
}

// toVideos maps search results to video rows, dropping results without an id
func (r *Runner) toVideos(channelID string, items []youtube.SearchItem, now time.Time, log logger.Logger) []models.Video {
	audit := models.NewAudit(r.opts.ProgramID, now)
	videos := make([]models.Video, 0, len(items))

	for _, item := range items {
		if item.VideoID == "" {
			log.WarnWithFields("Skipping search result without video id", map[string]interface{}{
				"title": item.Title,
			})
			continue
		}
		videos = append(videos, models.Video{
			ChannelID:   channelID,
			VideoID:     item.VideoID,
			Title:       item.Title,
			PublishedAt: item.PublishedAt.In(r.opts.Location),
			Audit:       audit,
		})
	}
	return videos
}

// filter keeps only the channels named in Options.Channels
func (r *Runner) filter(channels []models.Channel, log logger.Logger) []models.Channel {
	if len(r.opts.Channels) == 0 {
		return channels
	}

	wanted := make(map[string]bool, len(r.opts.Channels))
	for _, id := range r.opts.Channels {
		wanted[id] = true
	}

	filtered := make([]models.Channel, 0, len(r.opts.Channels))
	for _, c := range channels {
		if wanted[c.ChannelID] {
			filtered = append(filtered, c)
			delete(wanted, c.ChannelID)
		}
	}
	for id := range wanted {
		log.WarnWithFields("Requested channel is not in the catalog", map[string]interface{}{
			"channel_id": id,
		})
	}
	return filtered
}
