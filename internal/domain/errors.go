package domain

import "errors"

var (
	// ErrSystemOff signals the availability row is switched off.
	ErrSystemOff = errors.New("system switched off")
	// ErrSystemUnknown signals the availability row is missing or unreadable.
	ErrSystemUnknown = errors.New("system availability unknown")
	// ErrValidation signals malformed ingestion input.
	ErrValidation = errors.New("validation failed")
	// ErrUpstream signals an embedding, store, or generation transport failure.
	ErrUpstream = errors.New("upstream provider error")
	// ErrGenerationParse signals a generation response that could not be interpreted.
	ErrGenerationParse = errors.New("generation response unparsable")
	// ErrQuizParse signals quiz output that could not be decoded as the expected items.
	ErrQuizParse = errors.New("quiz response unparsable")
	// ErrNoDocuments signals a retrieval that matched nothing relevant.
	ErrNoDocuments = errors.New("no relevant documents")
)
