package api

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// The error kinds surfaced by this library. Vocabulary loaders return
// FileNotFoundError, VocabularyParsingError or TokenNotFoundError; encoding
// returns ValueError for invalid truncation requests. Nothing is logged and
// nothing panics: errors travel back to the caller with context attached.

// FileNotFoundError reports a vocabulary or model path that could not be
// opened.
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file %q not found: %v", e.Path, e.Err)
}

func (e *FileNotFoundError) Unwrap() error { return e.Err }

// ErrFileNotFound wraps err as a FileNotFoundError for path, with a stack
// trace attached.
func ErrFileNotFound(path string, err error) error {
	return errors.WithStack(&FileNotFoundError{Path: path, Err: err})
}

// IsFileNotFound reports whether err is (or wraps) a FileNotFoundError.
func IsFileNotFound(err error) bool {
	var target *FileNotFoundError
	return stderrors.As(err, &target)
}

// VocabularyParsingError reports malformed vocabulary file contents: an I/O
// failure mid-read, bad JSON, a bad protobuf payload, or invalid UTF-8.
type VocabularyParsingError struct {
	Path string
	Err  error
}

func (e *VocabularyParsingError) Error() string {
	return fmt.Sprintf("parsing vocabulary %q: %v", e.Path, e.Err)
}

func (e *VocabularyParsingError) Unwrap() error { return e.Err }

// ErrVocabularyParsing wraps err as a VocabularyParsingError for path, with a
// stack trace attached.
func ErrVocabularyParsing(path string, err error) error {
	return errors.WithStack(&VocabularyParsingError{Path: path, Err: err})
}

// IsVocabularyParsing reports whether err is (or wraps) a
// VocabularyParsingError.
func IsVocabularyParsing(err error) bool {
	var target *VocabularyParsingError
	return stderrors.As(err, &target)
}

// TokenNotFoundError reports a required special token missing from a loaded
// vocabulary.
type TokenNotFoundError struct {
	Token string
}

func (e *TokenNotFoundError) Error() string {
	return fmt.Sprintf("token %q not found in vocabulary", e.Token)
}

// ErrTokenNotFound creates a TokenNotFoundError for token, with a stack trace
// attached.
func ErrTokenNotFound(token string) error {
	return errors.WithStack(&TokenNotFoundError{Token: token})
}

// IsTokenNotFound reports whether err is (or wraps) a TokenNotFoundError.
func IsTokenNotFound(err error) bool {
	var target *TokenNotFoundError
	return stderrors.As(err, &target)
}

// ValueError reports an invalid argument at encode time, such as a truncation
// strategy that cannot remove enough tokens from its chosen sequence.
type ValueError struct {
	Msg string
}

func (e *ValueError) Error() string { return e.Msg }

// ValueErrorf creates a ValueError with a formatted message and a stack trace
// attached.
func ValueErrorf(format string, args ...any) error {
	return errors.WithStack(&ValueError{Msg: fmt.Sprintf(format, args...)})
}

// IsValueError reports whether err is (or wraps) a ValueError.
func IsValueError(err error) bool {
	var target *ValueError
	return stderrors.As(err, &target)
}
