package domain

import (
	"errors"
	"fmt"
)

const (
	MessageMissingFile     = "Please upload a profile picture"
	MessageBackendFailure  = "Error uploading profile picture or saving doctor details"
	MessageDoctorSubmitted = "Doctor added successfully!"
	MessageMissingFields   = "Please fill in all fields"
	MessagePictureTooLarge = "Profile picture is too large"
	MessageBadPicture      = "Could not read the profile picture"
)

var (
	ErrUnknownField         = errors.New("unknown field")
	ErrSessionNotFound      = errors.New("intake session not found")
	ErrSubmissionInProgress = errors.New("submission already in progress")
	ErrAlreadySubmitted     = errors.New("doctor profile already submitted")
	ErrTooManySessions      = errors.New("too many open intake sessions")
	ErrPictureTooLarge      = errors.New("profile picture is too large")
)

type ErrorKind int

const (
	ErrorKindMissingFile ErrorKind = iota + 1
	ErrorKindBackend
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindMissingFile:
		return "missing_file"
	case ErrorKindBackend:
		return "backend"
	}
	return "unknown"
}

// Phase names the submission step a backend failure came from.
type Phase string

const (
	PhaseNone         Phase = ""
	PhaseUpload       Phase = "upload"
	PhaseRetrievalURL Phase = "retrieval_url"
	PhasePersist      Phase = "persist"
)

// IntakeError is a submission failure. Message is what users see; Kind and Phase
// keep the cause distinguishable for logs and callers.
type IntakeError struct {
	Kind  ErrorKind
	Phase Phase
	Err   error
}

func NewMissingFileError() *IntakeError {
	return &IntakeError{Kind: ErrorKindMissingFile}
}

func NewBackendError(phase Phase, err error) *IntakeError {
	return &IntakeError{Kind: ErrorKindBackend, Phase: phase, Err: err}
}

func (e *IntakeError) Message() string {
	if e.Kind == ErrorKindMissingFile {
		return MessageMissingFile
	}
	return MessageBackendFailure
}

func (e *IntakeError) Error() string {
	if e.Err == nil {
		return e.Message()
	}
	return fmt.Sprintf("%s (%s): %v", e.Kind, e.Phase, e.Err)
}

func (e *IntakeError) Unwrap() error {
	return e.Err
}

func IsKind(err error, kind ErrorKind) bool {
	var ie *IntakeError
	return errors.As(err, &ie) && ie.Kind == kind
}
