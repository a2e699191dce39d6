package logger

import (
	"time"

	"videobatch/pkg/models"
)

// ForChannel returns a logger tagged with the channel being processed
func ForChannel(base Logger, channel models.Channel) Logger {
	return base.WithFields(map[string]interface{}{
		"channel_id":   channel.ChannelID,
		"channel_name": channel.Name,
	})
}

// LogWindow logs the window claimed for a channel, formatted in loc
func LogWindow(l Logger, window models.Window, loc *time.Location) {
	l.InfoWithFields("Batch window claimed", map[string]interface{}{
		"window_start": window.Start.In(loc).Format(time.RFC3339),
		"window_end":   window.End.In(loc).Format(time.RFC3339),
		"window_span":  window.Duration(),
	})
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return nopLogger{}
}

// nopLogger discards everything
type nopLogger struct{}

func (n nopLogger) Debug(string)                                   {}
func (n nopLogger) Info(string)                                    {}
func (n nopLogger) Warn(string)                                    {}
func (n nopLogger) Error(string)                                   {}
func (n nopLogger) WithField(string, interface{}) Logger           { return n }
func (n nopLogger) WithFields(map[string]interface{}) Logger       { return n }
func (n nopLogger) WithError(error) Logger                         { return n }
func (n nopLogger) DebugWithFields(string, map[string]interface{}) {}
func (n nopLogger) InfoWithFields(string, map[string]interface{})  {}
func (n nopLogger) WarnWithFields(string, map[string]interface{})  {}
func (n nopLogger) ErrorWithFields(string, map[string]interface{}) {}
