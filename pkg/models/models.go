package models

import "time"

// Channel is a tracked channel from the channel catalog
type Channel struct {
	ChannelID string `json:"channel_id" yaml:"channel_id"`
	Name      string `json:"name" yaml:"name"`
}

// Audit holds the bookkeeping columns stamped on every row the batch writes
type Audit struct {
	CreatedAt   time.Time `json:"created_at"`
	CreatedUser string    `json:"created_user"`
	UpdatedAt   time.Time `json:"updated_at"`
	UpdatedUser string    `json:"updated_user"`
	ProgramID   string    `json:"program_id"`
}

// NewAudit stamps both created and updated columns with the same program and time
func NewAudit(programID string, now time.Time) Audit {
	return Audit{
		CreatedAt:   now,
		CreatedUser: programID,
		UpdatedAt:   now,
		UpdatedUser: programID,
		ProgramID:   programID,
	}
}

// BatchWindow is one row of the append-only channel_video_batch_event log.
// The row with the highest EventID for a channel is its checkpoint.
type BatchWindow struct {
	EventID       int64     `json:"event_id"`
	ChannelID     string    `json:"channel_id"`
	FirstDatetime time.Time `json:"first_datetime"`
	LastDatetime  time.Time `json:"last_datetime"`
	Audit
}

// Window returns the time interval covered by the record
func (b *BatchWindow) Window() Window {
	return Window{Start: b.FirstDatetime, End: b.LastDatetime}
}

// Window is a half-open interval [Start, End)
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the length of the window
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Empty reports whether the window covers no time at all
func (w Window) Empty() bool {
	return !w.End.After(w.Start)
}

// In returns a copy of the window with both bounds expressed in loc
func (w Window) In(loc *time.Location) Window {
	return Window{Start: w.Start.In(loc), End: w.End.In(loc)}
}

// Video is a row of the video table, keyed on (ChannelID, VideoID)
type Video struct {
	ChannelID   string    `json:"channel_id"`
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
	Audit
}
