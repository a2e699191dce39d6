package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"videobatch/pkg/models"
)

//go:embed schema.sql
var schemaSQL string

// Postgres implements Store on a pgx connection pool
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an open pool
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// ListChannels returns all channels in the catalog
func (p *Postgres) ListChannels(ctx context.Context) ([]models.Channel, error) {
	query := `
		SELECT channel_id, name
		FROM channel
		ORDER BY channel_id`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var channels []models.Channel
	for rows.Next() {
		var c models.Channel
		if err := rows.Scan(&c.ChannelID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, c)
	}
	return channels, rows.Err()
}

// LatestWindows returns the newest window per channel
func (p *Postgres) LatestWindows(ctx context.Context) ([]models.BatchWindow, error) {
	query := `
		SELECT DISTINCT ON (channel_id)
		       event_id, channel_id, first_datetime, last_datetime,
		       created_at, created_user, updated_at, updated_user, program_id
		FROM channel_video_batch_event
		ORDER BY channel_id, event_id DESC`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list latest windows: %w", err)
	}
	defer rows.Close()

	var windows []models.BatchWindow
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, *w)
	}
	return windows, rows.Err()
}

// Begin opens a read-committed transaction
func (p *Postgres) Begin(ctx context.Context) (Tx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgTx{tx: tx}, nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) FindLatestWindow(ctx context.Context, channelID string) (*models.BatchWindow, error) {
	query := `
		SELECT event_id, channel_id, first_datetime, last_datetime,
		       created_at, created_user, updated_at, updated_user, program_id
		FROM channel_video_batch_event
		WHERE channel_id = $1
		ORDER BY event_id DESC
		LIMIT 1`

	w, err := scanWindow(t.tx.QueryRow(ctx, query, channelID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (t *pgTx) InsertWindow(ctx context.Context, w *models.BatchWindow) error {
	query := `
		INSERT INTO channel_video_batch_event
		    (channel_id, first_datetime, last_datetime,
		     created_at, created_user, updated_at, updated_user, program_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING event_id`

	err := t.tx.QueryRow(ctx, query,
		w.ChannelID, w.FirstDatetime, w.LastDatetime,
		w.CreatedAt, w.CreatedUser, w.UpdatedAt, w.UpdatedUser, w.ProgramID,
	).Scan(&w.EventID)
	if err != nil {
		return fmt.Errorf("insert batch window: %w", err)
	}
	return nil
}

func (t *pgTx) SaveVideos(ctx context.Context, videos []models.Video) error {
	if len(videos) == 0 {
		return nil
	}

	query := `
		INSERT INTO video
		    (channel_id, video_id, title, published_at,
		     created_at, created_user, updated_at, updated_user, program_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (channel_id, video_id) DO UPDATE SET
		    title        = EXCLUDED.title,
		    published_at = EXCLUDED.published_at,
		    updated_at   = EXCLUDED.updated_at,
		    updated_user = EXCLUDED.updated_user,
		    program_id   = EXCLUDED.program_id`

	batch := &pgx.Batch{}
	for _, v := range videos {
		batch.Queue(query,
			v.ChannelID, v.VideoID, v.Title, v.PublishedAt,
			v.CreatedAt, v.CreatedUser, v.UpdatedAt, v.UpdatedUser, v.ProgramID,
		)
	}

	results := t.tx.SendBatch(ctx, batch)
	for _, v := range videos {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("upsert video %s: %w", v.VideoID, err)
		}
	}
	return results.Close()
}

func (t *pgTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func scanWindow(row pgx.Row) (*models.BatchWindow, error) {
	var w models.BatchWindow
	err := row.Scan(
		&w.EventID, &w.ChannelID, &w.FirstDatetime, &w.LastDatetime,
		&w.CreatedAt, &w.CreatedUser, &w.UpdatedAt, &w.UpdatedUser, &w.ProgramID,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
