package domain

import "strings"

// StateKind tags a RequestState
type StateKind int

const (
	StateLoading StateKind = iota
	StateSuccess
	StateError
)

func (k StateKind) String() string {
	switch k {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return "unknown"
}

// LoadingPhase tells the presentation layer to show or hide progress
type LoadingPhase int

const (
	LoadingShow LoadingPhase = iota
	LoadingHide
)

func (p LoadingPhase) String() string {
	if p == LoadingShow {
		return "show"
	}
	return "hide"
}

const (
	// MessageOffline marks a Success served from the local store
	MessageOffline = "offline"
	// MessageNA is the placeholder for "no usable message"
	MessageNA = "NA"
	// MessageFallback is shown instead of blank, null or NA messages
	MessageFallback = "Something is wrong. Please try again."
	// MessageNoConnection is used when offline and nothing is cached
	MessageNoConnection = "No internet connection and nothing cached"
)

// RequestState is the state of one logical request: Loading, Success or Error.
// Only the fields relevant to Kind are set.
type RequestState[T any] struct {
	RequestID string
	Kind      StateKind
	Phase     LoadingPhase
	Data      T
	Message   string
}

// Loading returns a Loading state for the given phase
func Loading[T any](requestID string, phase LoadingPhase) RequestState[T] {
	return RequestState[T]{RequestID: requestID, Kind: StateLoading, Phase: phase}
}

// Success returns a terminal Success state
func Success[T any](requestID string, data T, message string) RequestState[T] {
	return RequestState[T]{RequestID: requestID, Kind: StateSuccess, Data: data, Message: message}
}

// Failure returns a terminal Error state
func Failure[T any](requestID string, message string) RequestState[T] {
	return RequestState[T]{RequestID: requestID, Kind: StateError, Message: message}
}

// IsTerminal reports whether the state ends its request
func (s RequestState[T]) IsTerminal() bool {
	return s.Kind == StateSuccess || s.Kind == StateError
}

// IsOffline reports whether a Success was served from the local store
func (s RequestState[T]) IsOffline() bool {
	return s.Kind == StateSuccess && s.Message == MessageOffline
}

// DisplayMessage returns Message, or MessageFallback when it carries nothing readable
func (s RequestState[T]) DisplayMessage() string {
	if IsBlankOrNA(s.Message) {
		return MessageFallback
	}
	return s.Message
}

// IsBlankOrNA reports whether msg is blank, "null" or "NA" (case-insensitive)
func IsBlankOrNA(msg string) bool {
	m := strings.ToLower(strings.TrimSpace(msg))
	return m == "" || m == "null" || m == "na"
}
