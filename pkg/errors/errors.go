package errors

import (
	"errors"
	"fmt"
)

// Kind classifies where a batch failure came from
type Kind string

const (
	KindUpstreamCall     Kind = "upstream_call"
	KindCheckpointUpdate Kind = "checkpoint_update"
	KindPersist          Kind = "persist"
	KindBootstrap        Kind = "bootstrap"
)

// Error is a batch failure carrying its kind and the original cause
type Error struct {
	Kind      Kind
	Message   string
	ChannelID string
	Cause     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.ChannelID != "" {
		msg = fmt.Sprintf("%s [channel %s]", msg, e.ChannelID)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Upstream wraps a failed call to the video search service
func Upstream(channelID string, cause error) error {
	return &Error{
		Kind:      KindUpstreamCall,
		Message:   "video search request failed",
		ChannelID: channelID,
		Cause:     cause,
	}
}

// Checkpoint wraps a failed batch window lookup or insert
func Checkpoint(channelID string, cause error) error {
	return &Error{
		Kind:      KindCheckpointUpdate,
		Message:   "failed to advance batch window",
		ChannelID: channelID,
		Cause:     cause,
	}
}

// Persist wraps a failed video write or transaction commit
func Persist(channelID string, cause error) error {
	return &Error{
		Kind:      KindPersist,
		Message:   "failed to persist videos",
		ChannelID: channelID,
		Cause:     cause,
	}
}

// Bootstrap wraps failures that abort the whole run
func Bootstrap(message string, cause error) error {
	return &Error{
		Kind:    KindBootstrap,
		Message: message,
		Cause:   cause,
	}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) (Kind, bool) {
	var batchErr *Error
	if errors.As(err, &batchErr) {
		return batchErr.Kind, true
	}
	return "", false
}

// IsKind checks whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
