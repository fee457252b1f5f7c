package backend

import "fmt"

// ExperimentalDisabledError is returned when a backend guarded by the
// experimental flag is used without it being enabled.
type ExperimentalDisabledError struct {
	Feature string
}

// Error returns the error message
func (e *ExperimentalDisabledError) Error() string {
	return fmt.Sprintf(
		"%s is experimental; enable it with experimental: true in the config file or THV_TOOLS_EXPERIMENTAL=true",
		e.Feature,
	)
}

// InvalidVersionSpecError is returned when a git-sourced install
// receives a version string matching none of the recognized forms.
type InvalidVersionSpecError struct {
	Version string
}

// Error returns the error message with the accepted forms
func (e *InvalidVersionSpecError) Error() string {
	return fmt.Sprintf(
		`invalid git version %q: specify "rev:", "branch:", or "tag:", e.g. cargo:eza-community/eza@tag:v0.18.0 or cargo:eza-community/eza@branch:main`,
		e.Version,
	)
}

// MalformedLocatorError is returned when a constructed registry URL is
// not well formed. This indicates an invariant violation in the URL
// builder rather than bad user input.
type MalformedLocatorError struct {
	URL string
	Err error
}

// Error returns the error message
func (e *MalformedLocatorError) Error() string {
	return fmt.Sprintf("malformed registry URL %q: %v", e.URL, e.Err)
}

// Unwrap returns the underlying parse error
func (e *MalformedLocatorError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a registry record fails to parse. A
// single bad record aborts the whole listing so partial results are
// never cached.
type DecodeError struct {
	URL string
	Err error
}

// Error returns the error message
func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode registry record from %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying decode error
func (e *DecodeError) Unwrap() error {
	return e.Err
}
