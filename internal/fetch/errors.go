package fetch

import "fmt"

// RetrievalError indicates a remote resource could not be fetched
// (network failure, missing file, or an unexpected status). It is
// propagated to the caller; the loader never retries.
type RetrievalError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RetrievalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("retrieve %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("retrieve %s: %v", e.URL, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// LocalFileError indicates a caller-supplied local file is missing or
// unreadable.
type LocalFileError struct {
	Path string
	Err  error
}

func (e *LocalFileError) Error() string {
	return fmt.Sprintf("local file %s: %v", e.Path, e.Err)
}

func (e *LocalFileError) Unwrap() error { return e.Err }
