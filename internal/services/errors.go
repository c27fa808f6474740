package services

import "errors"

var (
	// ErrUnsupportedFormat means the upload is not a parseable document.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrExtractionFailure means the document parser failed internally.
	ErrExtractionFailure = errors.New("text extraction failed")
	// ErrBackendExhausted means every analyzer backend failed. It is never
	// returned to callers of ResumeAnalyzer; it only appears in logs.
	ErrBackendExhausted = errors.New("all analysis backends failed")
	// ErrExternalFetchFailure means the external job index could not be read.
	ErrExternalFetchFailure = errors.New("external job fetch failed")
	// ErrPersistence means the backing store rejected a read or write.
	ErrPersistence = errors.New("persistence error")
)
