package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNavigation represents browser navigation errors (timeouts,
	// missing elements); a navigation error skips the current query or
	// advertiser but never aborts the run
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypeParse represents DOM parsing errors for a single entry
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeStartup represents fatal startup errors (browser failed to
	// launch, portal unreachable, invalid configuration)
	ErrorTypeStartup ErrorType = "startup"
	// ErrorTypeExport represents I/O failures writing output files
	ErrorTypeExport ErrorType = "export"
	// ErrorTypeCache represents visit-cache errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublish represents record publisher errors
	ErrorTypePublish ErrorType = "publish"
)

// ScrapeError represents a scraper-specific error
type ScrapeError struct {
	Type    ErrorType
	Subject string // the query letter, advertiser URL, or output file involved
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Subject, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Subject, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// Fatal reports whether the error must abort the run. Only startup errors
// are fatal; everything else is logged and skipped.
func (e *ScrapeError) Fatal() bool {
	return e.Type == ErrorTypeStartup
}

// New creates a new ScrapeError
func New(errType ErrorType, subject, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Subject: subject,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNavigation creates a new navigation error
func NewNavigation(subject, message string, err error) *ScrapeError {
	return New(ErrorTypeNavigation, subject, message, err)
}

// NewParse creates a new parse error
func NewParse(subject, message string, err error) *ScrapeError {
	return New(ErrorTypeParse, subject, message, err)
}

// NewStartup creates a new startup error
func NewStartup(message string, err error) *ScrapeError {
	return New(ErrorTypeStartup, "", message, err)
}

// NewExport creates a new export error
func NewExport(subject, message string, err error) *ScrapeError {
	return New(ErrorTypeExport, subject, message, err)
}

// NewCache creates a new cache error
func NewCache(subject, message string, err error) *ScrapeError {
	return New(ErrorTypeCache, subject, message, err)
}

// NewPublish creates a new publish error
func NewPublish(subject, message string, err error) *ScrapeError {
	return New(ErrorTypePublish, subject, message, err)
}
