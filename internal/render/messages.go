package render

import (
	"errors"

	"github.com/OCAP2/csvmap/internal/ingest"
	"github.com/OCAP2/csvmap/internal/normalize"
)

// ErrorKind classifies an import failure for API clients.
type ErrorKind string

const (
	KindParseFailure ErrorKind = "parse_failure"
	KindNoRecords    ErrorKind = "no_records"
	KindNoValidData  ErrorKind = "no_valid_data"
	KindRead         ErrorKind = "read_error"
)

const welcomeMessage = "Welcome! Upload a CSV file with coordinate data to get started. " +
	"Expected columns: lat/latitude, lng/longitude, name, description, color, group"

// WelcomeStatus is shown before anything has been imported.
func WelcomeStatus() Status {
	return Status{Type: StatusInfo, Message: welcomeMessage}
}

// Classify maps an import error to its kind.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ingest.ErrParse):
		return KindParseFailure
	case errors.Is(err, ingest.ErrNoRecords):
		return KindNoRecords
	case errors.Is(err, normalize.ErrNoValidData):
		return KindNoValidData
	default:
		return KindRead
	}
}

// ErrorStatus is the user-visible status for an import error. Parser
// errors are shown verbatim.
func ErrorStatus(err error) Status {
	var msg string
	switch Classify(err) {
	case KindParseFailure:
		var pe *ingest.ParseError
		if errors.As(err, &pe) {
			msg = pe.Error()
		} else {
			msg = err.Error()
		}
	case KindNoRecords:
		msg = "No data found in CSV file"
	case KindNoValidData:
		msg = "Error processing data: No valid coordinate data found in CSV"
	default:
		msg = "Error reading file: " + err.Error()
	}
	return Status{Type: StatusError, Message: msg}
}
