package impact

import "errors"

var (
	// ErrReportDoesNotExist indicates a report index past the end of the sequence.
	ErrReportDoesNotExist = errors.New("impact: report does not exist")

	// ErrReportAlreadyVerified indicates a second verification of the same report.
	ErrReportAlreadyVerified = errors.New("impact: report already verified")

	// ErrEmptyURI indicates a report without a document location.
	ErrEmptyURI = errors.New("impact: report uri is empty")

	// ErrEmptyStandard indicates a certification without a standard name.
	ErrEmptyStandard = errors.New("impact: certification standard is empty")

	// ErrNoArchive indicates a document operation on a registry without an archive.
	ErrNoArchive = errors.New("impact: no document archive configured")

	// ErrNilParam indicates a required dependency was nil.
	ErrNilParam = errors.New("impact: required parameter is nil")
)
