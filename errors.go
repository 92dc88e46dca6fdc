package main

import "fmt"

// InputError reports a missing or empty source document.
type InputError struct {
	Source string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Source, e.Reason)
}

// ConfigurationError reports missing credentials or voice identifiers.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Field, e.Reason)
}

// ExternalCallError wraps a failure from an agent or service call,
// naming the pipeline stage that issued it.
type ExternalCallError struct {
	Stage string
	Err   error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *ExternalCallError) Unwrap() error {
	return e.Err
}

// SynthesisError reports a per-turn audio generation failure. Turn is the
// zero-based index into the refined script.
type SynthesisError struct {
	Turn    int
	Speaker string
	Err     error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesizing turn %d (%s): %v", e.Turn, e.Speaker, e.Err)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}
