// Package logger provides structured logging for the video batch.
//
// It wraps zerolog behind a small interface so packages can take a Logger
// and tests can swap in a TestLogger that captures every event:
//
//	logger.Initialize(&cfg.Logging)
//	log := logger.GetLogger().WithField("run_id", runID)
//	log.InfoWithFields("Channel processed", map[string]interface{}{
//	    "channel_id": "UC...",
//	    "videos":     42,
//	})
//
// Console output is colourised and written to stderr. When logging.file is
// set, JSON events are also appended to that file.
package logger
