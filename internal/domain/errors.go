package domain

import "errors"

// Interview error types

var (
	// ErrSessionNotFound indicates the session identifier is unknown or has expired
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExists indicates a start was requested for an identifier that is already in use
	ErrSessionExists = errors.New("session already exists")

	// ErrInterviewFinished indicates a message arrived after every section was completed
	ErrInterviewFinished = errors.New("interview already finished")

	// ErrMalformedExtraction indicates an extraction request is missing required fields
	ErrMalformedExtraction = errors.New("malformed extraction request")

	// ErrInvalidCatalog indicates the section catalog could not be built
	ErrInvalidCatalog = errors.New("invalid section catalog")
)

// Collaborator error types

var (
	// ErrCollaboratorUnavailable indicates an external collaborator (agent, translator, speech) is unavailable
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// ErrCollaboratorTimeout indicates a request to an external collaborator timed out
	ErrCollaboratorTimeout = errors.New("collaborator request timeout")

	// ErrInvalidRequest indicates an invalid request was made (4xx client errors)
	ErrInvalidRequest = errors.New("invalid request")

	// ErrTranslationFailed indicates a single turn could not be translated
	ErrTranslationFailed = errors.New("translation failed")

	// ErrFeatureDisabled indicates an optional collaborator is not configured
	ErrFeatureDisabled = errors.New("feature disabled")
)
