package core

// errors.go defines the pipeline's error taxonomy and maps errors to short
// user-facing messages with codes for support reference.
//
// # Error Codes Reference
//
// # Usage Errors (CFG001-CFG099)
//
// The caller passed arguments the pipeline cannot act on. Never recovered.
//
//	CFG001 - Invalid kind: kind must be all, readme, or summary
//	         Patterns: "invalid kind"
//
//	CFG002 - Mixed kinds: descriptors of more than one kind were passed
//	         Patterns: "multiple kinds"
//
//	CFG003 - Not summary: only summary descriptors can be cleaned
//	         Patterns: "only summary"
//
//	CFG004 - No descriptors: nothing to process
//	         Patterns: "no file descriptors"
//
//	CFG005 - Missing cruise: a descriptor has no cruise_id
//	         Patterns: "missing cruise_id"
//
// # Source Errors (SRC001-SRC099)
//
// Reference tables do not cover the request.
//
//	SRC001 - Unknown cruise: the cruise is not in the registry
//	         Patterns: "unknown cruise"
//
//	SRC002 - Registry invalid: the registry file failed validation
//	         Patterns: "registry validation failed"
//
// # Fetch Errors (FETCH001-FETCH099)
//
// Remote folder listings or sample files could not be retrieved.
//
//	FETCH001 - Unsupported format: link is neither CSV nor XLSX
//	           Patterns: "unsupported file format"
//
//	FETCH002 - File too large: download exceeded the size limit
//	           Patterns: "file exceeds maximum size"
//
//	FETCH003 - Timeout: the remote server did not answer in time
//	           Patterns: "context deadline exceeded", "timeout"
//
//	FETCH004 - Cancelled: the run was cancelled
//	           Patterns: "context canceled"
//
//	FETCH005 - Remote error: the remote server refused the request
//	           Patterns: "fetch "
//
//	FETCH006 - Listing changed: the folder page has no file table
//	           Patterns: "no file record set"
//
// # Data Errors (DATA001-DATA099)
//
// A sample file cannot be placed in the target schema.
//
//	DATA001 - Unknown area: station text matches no known site
//	          Patterns: "unknown area"
//
//	DATA002 - Missing column: a required column is absent
//	          Patterns: "missing required column"
//
//	DATA003 - Duplicate column: two headers map to one canonical name
//	          Patterns: "duplicate column"
//
//	DATA004 - Empty file: a sample file has no header row
//	          Patterns: "no header row"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: check logs for the original error
//
// Sentinel and typed errors are matched first with errors.Is and errors.As,
// since wrapped messages carry URLs and file names. Patterns then cover
// errors without a type, matched case-insensitively with strings.Contains.
// The first match wins, so specific patterns come before general ones.

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/JonMunkholm/discrete-summary/internal/contents"
	"github.com/JonMunkholm/discrete-summary/internal/table"
)

var (
	// ErrInvalidKind is returned for a kind other than all, readme, or summary.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrMixedKinds is returned when CleanAndMerge receives several kinds.
	ErrMixedKinds = errors.New("multiple kinds of files are not acceptable")

	// ErrNotSummary is returned when CleanAndMerge receives non-summary files.
	ErrNotSummary = errors.New("only summary files are accepted")

	// ErrNoDescriptors is returned when there is nothing to process.
	ErrNoDescriptors = errors.New("no file descriptors")

	// ErrUnknownCruise is returned for a cruise missing from the registry.
	ErrUnknownCruise = errors.New("unknown cruise")

	// ErrMissingCruiseID is returned by LatestContent for an unassigned descriptor.
	ErrMissingCruiseID = errors.New("descriptor missing cruise_id")

	// ErrUnsupportedFormat is returned for links that are neither CSV nor XLSX.
	ErrUnsupportedFormat = contents.ErrUnsupportedFormat
)

// FetchError reports a remote request that did not succeed.
type FetchError = contents.FetchError

// UnknownAreaError is returned when station text matches no known site.
type UnknownAreaError struct {
	Station string
}

func (e *UnknownAreaError) Error() string {
	return fmt.Sprintf("unknown area: %s", e.Station)
}

// MissingColumnError is returned when a column the pipeline needs is absent.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

// DuplicateColumnError is returned when two headers normalize to the same
// canonical name.
type DuplicateColumnError struct {
	Column  string
	Headers []string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("duplicate column %q from headers %q", e.Column, e.Headers)
}

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// Usage Errors (CFG001-CFG005)
	// =========================================================================
	{
		pattern: "invalid kind",
		msg: UserMessage{
			Message: "Unrecognized file kind",
			Action:  "Use one of: all, readme, summary",
			Code:    "CFG001",
		},
	},
	{
		pattern: "multiple kinds",
		msg: UserMessage{
			Message: "Files of more than one kind were selected",
			Action:  "Filter the listing to summary files first",
			Code:    "CFG002",
		},
	},
	{
		pattern: "only summary",
		msg: UserMessage{
			Message: "Only discrete summary files can be cleaned",
			Action:  "Filter the listing to summary files first",
			Code:    "CFG003",
		},
	},
	{
		pattern: "no file descriptors",
		msg: UserMessage{
			Message: "No files to process",
			Action:  "Check the cruise folders contain discrete summary files",
			Code:    "CFG004",
		},
	},
	{
		pattern: "missing cruise_id",
		msg: UserMessage{
			Message: "A file is not assigned to a cruise",
			Action:  "List contents through the registry so every file has a cruise",
			Code:    "CFG005",
		},
	},

	// =========================================================================
	// Source Errors (SRC001-SRC002)
	// =========================================================================
	{
		pattern: "unknown cruise",
		msg: UserMessage{
			Message: "Cruise is not in the registry",
			Action:  "Add the cruise to the source registry file",
			Code:    "SRC001",
		},
	},
	{
		pattern: "registry validation failed",
		msg: UserMessage{
			Message: "The source registry is invalid",
			Action:  "Fix the listed registry rows",
			Code:    "SRC002",
		},
	},

	// =========================================================================
	// Fetch Errors (FETCH001-FETCH006)
	// =========================================================================
	{
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "File is neither CSV nor XLSX",
			Action:  "Publish the summary as .csv or .xlsx",
			Code:    "FETCH001",
		},
	},
	{
		pattern: "file exceeds maximum size",
		msg: UserMessage{
			Message: "Download exceeded the size limit",
			Action:  "Raise FETCH_MAX_FILE_SIZE if the file is expected to be this large",
			Code:    "FETCH002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Remote server timed out",
			Action:  "Try again later or raise FETCH_TIMEOUT",
			Code:    "FETCH003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Remote server timed out",
			Action:  "Try again later or raise FETCH_TIMEOUT",
			Code:    "FETCH003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Run was cancelled",
			Action:  "Start a new run when ready",
			Code:    "FETCH004",
		},
	},
	{
		pattern: "no file record set",
		msg: UserMessage{
			Message: "Folder page layout not recognized",
			Action:  "Check the folder URL opens a file listing",
			Code:    "FETCH006",
		},
	},
	{
		pattern: "fetch ",
		msg: UserMessage{
			Message: "Remote server refused the request",
			Action:  "Check the folder URL and try again later",
			Code:    "FETCH005",
		},
	},

	// =========================================================================
	// Data Errors (DATA001-DATA004)
	// =========================================================================
	{
		pattern: "unknown area",
		msg: UserMessage{
			Message: "Station does not match a known site",
			Action:  "Correct the station text in the summary file",
			Code:    "DATA001",
		},
	},
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "Required column is missing from the summary file",
			Action:  "Check the file headers against the header map",
			Code:    "DATA002",
		},
	},
	{
		pattern: "duplicate column",
		msg: UserMessage{
			Message: "Two headers map to the same field",
			Action:  "Remove or rename the duplicated header",
			Code:    "DATA003",
		},
	},
	{
		pattern: "no header row",
		msg: UserMessage{
			Message: "Summary file is empty",
			Action:  "Check the published file has a header row",
			Code:    "DATA004",
		},
	},
}

// errorKinds maps sentinel and typed errors to codes in errorPatterns.
// Timeouts come before *FetchError, which may wrap one.
var errorKinds = []struct {
	match func(error) bool
	code  string
}{
	{is(ErrInvalidKind), "CFG001"},
	{is(ErrMixedKinds), "CFG002"},
	{is(ErrNotSummary), "CFG003"},
	{is(ErrNoDescriptors), "CFG004"},
	{is(ErrMissingCruiseID), "CFG005"},
	{is(ErrUnknownCruise), "SRC001"},
	{is(ErrUnsupportedFormat), "FETCH001"},
	{is(table.ErrTooLarge), "FETCH002"},
	{isTimeout, "FETCH003"},
	{is(context.Canceled), "FETCH004"},
	{is(contents.ErrNoRecordSet), "FETCH006"},
	{as[*FetchError], "FETCH005"},
	{as[*UnknownAreaError], "DATA001"},
	{as[*MissingColumnError], "DATA002"},
	{as[*DuplicateColumnError], "DATA003"},
	{is(table.ErrEmptyFile), "DATA004"},
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func as[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// messageFor returns the message registered for code.
func messageFor(code string) UserMessage {
	for _, ep := range errorPatterns {
		if ep.msg.Code == code {
			return ep.msg
		}
	}
	return defaultMessage
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for the original error",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Known error values are recognized first, then message patterns; ERR000
// is returned when nothing matches.
//
// Example:
//
//	msg := MapError(&UnknownAreaError{Station: "atlantis"})
//	// msg.Code == "DATA001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, k := range errorKinds {
		if k.match(err) {
			return messageFor(k.code)
		}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
