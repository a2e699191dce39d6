// Package checkpoint computes and records the time window each channel is
// fetched for.
//
// Windows form a contiguous chain per channel: each run starts where the
// previous one ended and may reach at most MaxSpan forward, never past the
// run's start time. A channel idle for years therefore catches up over
// several runs instead of issuing one unbounded query.
//
// Windows live in the channel_video_batch_event table, one appended row per
// run per channel. The row with the highest event id is the checkpoint. It is
// written in the same transaction as the fetched videos, so a run that fails
// to persist leaves the checkpoint where it was.
package checkpoint
