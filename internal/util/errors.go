package util

import "errors"

var (
	ErrUnknownAssessment  = errors.New("unknown assessment")
	ErrInvalidCOFilter    = errors.New("invalid CO filter")
	ErrNoRows             = errors.New("no rows in upload")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrBackendDisabled    = errors.New("backend base url not configured")
	ErrInvalidWorkbook    = errors.New("invalid workbook")
)
