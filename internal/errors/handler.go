package errors

import (
	"github.com/sirupsen/logrus"

	"github.com/zsiec/vq/internal/logger"
)

// Outcome classifies how a per-file failure affects a batch tally.
type Outcome int

const (
	// OutcomeSkipped files are excluded from the pass/fail tally.
	OutcomeSkipped Outcome = iota
	// OutcomeFailed files could not be processed at all.
	OutcomeFailed
)

// ErrorHandler reports per-file failures without stopping a batch.
type ErrorHandler struct {
	log logrus.FieldLogger
}

// NewErrorHandler creates a new error handler logging to log.
func NewErrorHandler(log logrus.FieldLogger) *ErrorHandler {
	return &ErrorHandler{
		log: log,
	}
}

// Classify maps an error to its batch outcome.
func Classify(err error) Outcome {
	if IsType(err, ErrorTypeNoData) || IsType(err, ErrorTypeInsufficientData) {
		return OutcomeSkipped
	}
	return OutcomeFailed
}

// HandleError logs err for the given file and returns its outcome.
func (h *ErrorHandler) HandleError(file string, err error) Outcome {
	appErr, ok := GetAppError(err)
	if !ok {
		appErr = WrapInternalError(err, "unexpected error")
	}

	logEntry := logger.WithFile(h.log, file).WithField("error_type", appErr.Type)
	if len(appErr.Details) > 0 {
		logEntry = logEntry.WithFields(logrus.Fields(appErr.Details))
	}

	outcome := Classify(appErr)
	switch outcome {
	case OutcomeSkipped:
		logEntry.Warn(appErr.Error())
	default:
		logEntry.Error(appErr.Error())
	}
	return outcome
}
