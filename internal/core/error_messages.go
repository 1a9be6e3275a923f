// Package core provides the business logic for serving the configured CSV file.
//
// # Error Codes Reference
//
// This file maps technical errors to user-facing messages with a code that
// can be quoted to support. Sentinel and typed errors are matched first
// (errors.Is / errors.As); message patterns are the fallback.
//
// # Configuration Errors (CFG001-CFG099)
//
//	CFG001 - Source not configured: no CSV path is set
//	         Action: Set CSV_FILE_NAME and restart the service
//	         Match: ErrNoSourcePath
//
// # File Errors (FILE001-FILE099)
//
//	FILE002 - Invalid CSV: the file is not valid CSV
//	          Action: Check quoting in the reported line
//	          Match: *csv.ParseError, "invalid csv"
//
//	FILE006 - File not found: the configured CSV file does not exist
//	          Action: Check CSV_FILE_NAME points at an existing file
//	          Match: fs.ErrNotExist
//
//	FILE007 - Permission denied: the service cannot read the CSV file
//	          Action: Grant the service read access to the file
//	          Match: fs.ErrPermission
//
//	FILE008 - Not a file: the configured path is a directory
//	          Action: Point CSV_FILE_NAME at a file, not a directory
//	          Match: ErrSourceIsDir, "is a directory"
//
//	FILE009 - Read failure: the file could not be read to the end
//	          Action: Please try again
//	          Match: "read csv source"
//
// # Fetch Errors (FET001-FET099)
//
//	FET001 - System busy: too many fetches in progress
//	         Action: Please wait a moment and try again
//	         Match: ErrTooManyFetches
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	         Match: context.Canceled
//
//	REQ002 - Request timed out
//	         Match: context.DeadlineExceeded
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests
//	          Match: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the application log for the
// technical error logged next to the request id.
package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorMatch pairs a predicate with the message it selects.
type errorMatch struct {
	match func(error) bool
	msg   UserMessage
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func isParseError(err error) bool {
	var parseErr *csv.ParseError
	return errors.As(err, &parseErr)
}

// errorMatches is checked in order; the first hit wins. Context errors come
// before file errors because a cancelled decode also carries the path.
var errorMatches = []errorMatch{
	{is(ErrNoSourcePath), UserMessage{
		Message: "CSV source is not configured",
		Action:  "Set CSV_FILE_NAME and restart the service",
		Code:    "CFG001",
	}},
	{is(ErrTooManyFetches), UserMessage{
		Message: "System is busy serving other requests",
		Action:  "Please wait a moment and try again",
		Code:    "FET001",
	}},
	{is(context.Canceled), UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ001",
	}},
	{is(context.DeadlineExceeded), UserMessage{
		Message: "Request timed out",
		Action:  "Try again later or ask for a smaller file",
		Code:    "REQ002",
	}},
	{is(fs.ErrNotExist), UserMessage{
		Message: "CSV file not found",
		Action:  "Check CSV_FILE_NAME points at an existing file",
		Code:    "FILE006",
	}},
	{is(fs.ErrPermission), UserMessage{
		Message: "CSV file is not readable",
		Action:  "Grant the service read access to the file",
		Code:    "FILE007",
	}},
	{is(ErrSourceIsDir), directoryMessage},
	{isParseError, invalidCSVMessage},
}

var (
	invalidCSVMessage = UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Check quoting in the reported line",
		Code:    "FILE002",
	}
	directoryMessage = UserMessage{
		Message: "CSV source is a directory",
		Action:  "Point CSV_FILE_NAME at a file, not a directory",
		Code:    "FILE008",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is the case-insensitive fallback for errors that arrive
// without a sentinel, e.g. from middleware.
var errorPatterns = []errorPattern{
	{"invalid csv", invalidCSVMessage},
	{"is a directory", directoryMessage},
	{"read csv source", UserMessage{
		Message: "CSV file could not be read",
		Action:  "Please try again",
		Code:    "FILE009",
	}},
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// A nil error maps to the zero UserMessage.
//
//	msg := MapError(fmt.Errorf("open csv source: %w", fs.ErrNotExist))
//	// msg.Code == "FILE006"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, m := range errorMatches {
		if m.match(err) {
			return m.msg
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

// FormatUserError renders "Message (Code: XXX). Action".
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
