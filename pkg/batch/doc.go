// Package batch drives one run of the video batch.
//
// For every channel in the catalog the runner opens a transaction, records
// the channel's next window, fetches the videos published in it, upserts
// them and commits. Any failure rolls back that channel only; its window is
// retried by the next run. Channels are processed one at a time in catalog
// order.
package batch
