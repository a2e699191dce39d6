package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"videobatch/pkg/models"
)

// ErrTxDone is returned when a finished transaction is used again
var ErrTxDone = errors.New("transaction already committed or rolled back")

// Memory is an in-process Store. Writes are staged per transaction and
// only become visible on Commit. Fail hooks let callers inject store errors.
type Memory struct {
	mu       sync.Mutex
	channels []models.Channel
	windows  []models.BatchWindow
	videos   map[videoKey]models.Video
	nextID   int64

	// FailFind, FailInsert, FailSave and FailCommit are consulted with the
	// channel id of the operation; a non-nil result is returned as the error
	FailFind   func(channelID string) error
	FailInsert func(channelID string) error
	FailSave   func(channelID string) error
	FailCommit func(channelID string) error
}

type videoKey struct {
	channelID string
	videoID   string
}

// NewMemory creates an in-memory store holding the given channels
func NewMemory(channels ...models.Channel) *Memory {
	return &Memory{
		channels: channels,
		videos:   make(map[videoKey]models.Video),
	}
}

// ListChannels returns the channels ordered by id
func (m *Memory) ListChannels(ctx context.Context) ([]models.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := append([]models.Channel(nil), m.channels...)
	sort.Slice(out, func(i, j int) bool { return out[i].ChannelID < out[j].ChannelID })
	return out, nil
}

// LatestWindows returns the newest committed window per channel
func (m *Memory) LatestWindows(ctx context.Context) ([]models.BatchWindow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	latest := make(map[string]models.BatchWindow)
	for _, w := range m.windows {
		if cur, ok := latest[w.ChannelID]; !ok || w.EventID > cur.EventID {
			latest[w.ChannelID] = w
		}
	}

	out := make([]models.BatchWindow, 0, len(latest))
	for _, w := range latest {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChannelID < out[j].ChannelID })
	return out, nil
}

// Windows returns every committed window in insertion order
func (m *Memory) Windows(channelID string) []models.BatchWindow {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.BatchWindow
	for _, w := range m.windows {
		if w.ChannelID == channelID {
			out = append(out, w)
		}
	}
	return out
}

// Videos returns the committed videos of a channel ordered by video id
func (m *Memory) Videos(channelID string) []models.Video {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Video
	for k, v := range m.videos {
		if k.channelID == channelID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VideoID < out[j].VideoID })
	return out
}

// Begin opens a staged transaction
func (m *Memory) Begin(ctx context.Context) (Tx, error) {
	return &memoryTx{store: m}, nil
}

type memoryTx struct {
	store   *Memory
	windows []models.BatchWindow
	videos  []models.Video
	channel string
	done    bool
}

func (t *memoryTx) FindLatestWindow(ctx context.Context, channelID string) (*models.BatchWindow, error) {
	if t.done {
		return nil, ErrTxDone
	}
	t.channel = channelID
	if t.store.FailFind != nil {
		if err := t.store.FailFind(channelID); err != nil {
			return nil, err
		}
	}

	var latest *models.BatchWindow
	consider := func(w models.BatchWindow) {
		if w.ChannelID == channelID && (latest == nil || w.EventID > latest.EventID) {
			w := w
			latest = &w
		}
	}

	t.store.mu.Lock()
	for _, w := range t.store.windows {
		consider(w)
	}
	t.store.mu.Unlock()
	for _, w := range t.windows {
		consider(w)
	}
	return latest, nil
}

func (t *memoryTx) InsertWindow(ctx context.Context, w *models.BatchWindow) error {
	if t.done {
		return ErrTxDone
	}
	t.channel = w.ChannelID
	if t.store.FailInsert != nil {
		if err := t.store.FailInsert(w.ChannelID); err != nil {
			return err
		}
	}

	t.store.mu.Lock()
	t.store.nextID++
	w.EventID = t.store.nextID
	t.store.mu.Unlock()

	t.windows = append(t.windows, *w)
	return nil
}

func (t *memoryTx) SaveVideos(ctx context.Context, videos []models.Video) error {
	if t.done {
		return ErrTxDone
	}
	channelID := t.channel
	if len(videos) > 0 {
		channelID = videos[0].ChannelID
	}
	if t.store.FailSave != nil {
		if err := t.store.FailSave(channelID); err != nil {
			return err
		}
	}
	t.videos = append(t.videos, videos...)
	return nil
}

func (t *memoryTx) Commit(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	if t.store.FailCommit != nil {
		if err := t.store.FailCommit(t.channel); err != nil {
			return err
		}
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	t.store.windows = append(t.store.windows, t.windows...)
	for _, v := range t.videos {
		key := videoKey{channelID: v.ChannelID, videoID: v.VideoID}
		if existing, ok := t.store.videos[key]; ok {
			v.CreatedAt = existing.CreatedAt
			v.CreatedUser = existing.CreatedUser
		}
		t.store.videos[key] = v
	}
	return nil
}

func (t *memoryTx) Rollback(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	t.windows = nil
	t.videos = nil
	return nil
}
