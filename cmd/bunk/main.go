package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess        = 0 // Evaluation completed and meets the criteria
	ExitBelowThreshold = 1 // --strict and attendance is below the criteria
	ExitError          = 2 // Configuration, input or runtime error
)

// BelowThresholdError indicates that the evaluation ran successfully, but
// attendance is below the required percentage and --strict was given.
type BelowThresholdError struct {
	Message string
}

func (e *BelowThresholdError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var belowErr *BelowThresholdError
		if errors.As(err, &belowErr) {
			os.Exit(ExitBelowThreshold)
		}

		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
