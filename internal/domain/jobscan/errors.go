package jobscan

import "errors"

// Sentinel kinds for job ingestion errors.
var (
	ErrMissingJobText     = errors.New("job text is missing or too short")
	ErrNoSignal           = errors.New("unable to extract any signal from job text")
	ErrIncompleteCoverage = errors.New("incomplete dimension coverage")
)
