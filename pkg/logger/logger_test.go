package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"videobatch/pkg/config"
	"videobatch/pkg/models"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var events []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var event map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &event))
		events = append(events, event)
	}
	return events
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{"info level", &config.LoggingConfig{Level: "info"}, false},
		{"debug level", &config.LoggingConfig{Level: "debug"}, false},
		{"invalid level", &config.LoggingConfig{Level: "invalid"}, true},
		{"file output", &config.LoggingConfig{Level: "info", File: filepath.Join(t.TempDir(), "logs", "batch.log")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"", zerolog.InfoLevel, false},
		{"verbose", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&config.LoggingConfig{Level: "warn"}, &buf)
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too")

	events := decodeLines(t, &buf)
	require.Len(t, events, 2)
	assert.Equal(t, "warn", events[0]["level"])
	assert.Equal(t, "error", events[1]["level"])
}

func TestFieldsAreCarried(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&config.LoggingConfig{Level: "debug"}, &buf)
	require.NoError(t, err)

	channelLog := l.WithField("run_id", "run-1").WithFields(map[string]interface{}{
		"channel_id": "UC1",
	})
	channelLog.WithError(errors.New("quota")).ErrorWithFields("Channel failed", map[string]interface{}{
		"pages":   3,
		"elapsed": 2 * time.Second,
	})

	events := decodeLines(t, &buf)
	require.Len(t, events, 1)
	event := events[0]
	assert.Equal(t, "Channel failed", event["message"])
	assert.Equal(t, "run-1", event["run_id"])
	assert.Equal(t, "UC1", event["channel_id"])
	assert.Equal(t, "quota", event["error"])
	assert.Equal(t, float64(3), event["pages"])
	assert.Equal(t, "videobatch", event["app"])
}

func TestWithErrorNil(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&config.LoggingConfig{Level: "info"}, &buf)
	require.NoError(t, err)

	assert.Same(t, l, l.WithError(nil))
}

func TestGlobalLogger(t *testing.T) {
	require.NoError(t, Initialize(&config.LoggingConfig{Level: "error"}))
	assert.NotNil(t, GetLogger())
	assert.NotNil(t, WithField("k", "v"))
}

func TestTestLoggerCapturesFields(t *testing.T) {
	tl := NewTestLogger()
	ch := ForChannel(tl, models.Channel{ChannelID: "UC9", Name: "Nine"})

	ch.WithError(errors.New("boom")).Error("Channel failed")
	ch.Info("Channel done")

	msgs := tl.GetMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "UC9", msgs[0].Fields["channel_id"])
	assert.EqualError(t, msgs[0].Error, "boom")
	assert.Nil(t, msgs[1].Error)
	assert.True(t, tl.HasError())
	assert.True(t, tl.HasMessage("Channel done"))

	tl.Clear()
	assert.Empty(t, tl.GetMessages())
}

func TestLogWindow(t *testing.T) {
	tl := NewTestLogger()
	tokyo := time.FixedZone("JST", 9*60*60)
	window := models.Window{
		Start: time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2017, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	LogWindow(tl, window, tokyo)

	msgs := tl.GetMessagesByLevel("INFO")
	require.Len(t, msgs, 1)
	assert.Equal(t, "2017-01-01T09:00:00+09:00", msgs[0].Fields["window_start"])
	assert.Equal(t, "2017-07-01T09:00:00+09:00", msgs[0].Fields["window_end"])
}
