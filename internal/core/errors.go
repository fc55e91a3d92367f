// Error code reference for toast messages.
//
// Workflow errors are translated to user-friendly messages with codes a
// user can quote to support staff. Codes are grouped by category:
//
//	VAL001 - Delete without identity: the target person was never saved
//	SES001 - Busy dialog: a request is already in flight for this dialog
//
//	FILE001 - File too large: the dropped CSV exceeds the configured limit
//	FILE002 - No file: an import was submitted without a file
//
//	API001 - Connection refused: the persons service is unreachable
//	API002 - Timeout: the persons service did not answer in time
//	API003 - Rejected: the persons service answered with an error status
//	API004 - Not found: the requested person does not exist
//
//	IMP001 - Upload target: no upload descriptor could be obtained
//	IMP002 - Transfer: the CSV bytes could not be stored
//	IMP003 - Ingestion: the stored CSV could not be processed
//
//	ERR000 - Anything unmatched; check server logs for the original error.
package core

import (
	"errors"
	"strings"

	"github.com/cedoromal/persons-admin/internal/api"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// sentinelMessages maps known workflow errors to user messages. Sentinels
// are checked with errors.Is before any pattern matching.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{
		err: ErrMissingPersonID,
		msg: UserMessage{
			Message: "This person has not been saved yet",
			Action:  "Refresh the table and try again",
			Code:    "VAL001",
		},
	},
	{
		err: ErrSessionBusy,
		msg: UserMessage{
			Message: "A request for this dialog is still in progress",
			Action:  "Wait for the current request to finish",
			Code:    "SES001",
		},
	},
	{
		err: ErrFileTooLarge,
		msg: UserMessage{
			Message: "The CSV file exceeds the size limit",
			Action:  "Split the file or raise IMPORT_MAX_FILE_SIZE",
			Code:    "FILE001",
		},
	},
	{
		err: ErrNoFile,
		msg: UserMessage{
			Message: "No CSV file was selected",
			Action:  "Drop a CSV file onto the import area",
			Code:    "FILE002",
		},
	},
	{
		err: api.ErrNotFound,
		msg: UserMessage{
			Message: "That person does not exist anymore",
			Action:  "Refresh the table",
			Code:    "API004",
		},
	},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive, matched with
// strings.Contains) to user messages. The first matching pattern wins, so
// specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// Import pipeline stages. These carry the pipeline's own wording, so
	// they sit before the generic backend patterns.
	{
		pattern: "request upload target",
		msg: UserMessage{
			Message: "Could not start the CSV upload",
			Action:  "Please try again in a few moments",
			Code:    "IMP001",
		},
	},
	{
		pattern: "transfer failed",
		msg: UserMessage{
			Message: "The CSV file could not be stored",
			Action:  "Please try the upload again",
			Code:    "IMP002",
		},
	},
	{
		pattern: "outside the storage base",
		msg: UserMessage{
			Message: "The issued upload link was not usable",
			Action:  "Contact support with this code",
			Code:    "IMP002",
		},
	},
	{
		pattern: "ingest",
		msg: UserMessage{
			Message: "The uploaded CSV could not be processed",
			Action:  "Check the file contents and try again",
			Code:    "IMP003",
		},
	},

	// Backend connectivity.
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "The persons service is unreachable",
			Action:  "Please try again in a few moments",
			Code:    "API001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The persons service did not answer in time",
			Action:  "Please try again",
			Code:    "API002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The persons service did not answer in time",
			Action:  "Please try again",
			Code:    "API002",
		},
	},
	{
		pattern: "returned status",
		msg: UserMessage{
			Message: "The persons service rejected the request",
			Action:  "Please try again; contact support if it persists",
			Code:    "API003",
		},
	},
}

// MapError converts a technical error into a user-friendly message.
// Unmatched errors get the generic ERR000 message; the original error is
// only ever logged server-side.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	text := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(text, p.pattern) {
			return p.msg
		}
	}

	return UserMessage{
		Message: "Something went wrong",
		Action:  "Please try again; contact support if it persists",
		Code:    "ERR000",
	}
}
