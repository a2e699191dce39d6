package store

import (
	"context"
	"fmt"

	"videobatch/pkg/models"
)

// Store is the durable side of the batch: the channel catalog plus
// transactional access to batch windows and videos
type Store interface {
	// ListChannels returns the tracked channels ordered by channel id
	ListChannels(ctx context.Context) ([]models.Channel, error)
	// Begin opens a transaction
	Begin(ctx context.Context) (Tx, error)
	// LatestWindows returns the newest batch window of every channel that has one
	LatestWindows(ctx context.Context) ([]models.BatchWindow, error)
}

// Tx is a unit of work. Nothing written through it is visible to other
// transactions until Commit succeeds.
type Tx interface {
	// FindLatestWindow returns the channel's window with the highest event id,
	// or nil when the channel has never been processed
	FindLatestWindow(ctx context.Context, channelID string) (*models.BatchWindow, error)
	// InsertWindow appends a window and sets its EventID
	InsertWindow(ctx context.Context, window *models.BatchWindow) error
	// SaveVideos upserts videos keyed on (channel_id, video_id)
	SaveVideos(ctx context.Context, videos []models.Video) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Beginner opens transactions
type Beginner interface {
	Begin(ctx context.Context) (Tx, error)
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back when fn returns an error or panics.
func WithTx(ctx context.Context, b Beginner, fn func(tx Tx) error) (err error) {
	tx, err := b.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
