package errstatus

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrorHandler handles irremediable events, e.g. to log error occurring while
// writing to http.ResponseWriter, or details dropped while folding an error
// into a Status.
type ErrorHandler interface {
	Handle(error)
}

type errorHandler struct {
	mu      sync.RWMutex
	handler ErrorHandler
}

func (h *errorHandler) Handle(err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.handler != nil {
		h.handler.Handle(err)
	}
}

var (
	// handler may be used if set to handle or log errors that can't
	// be returned back to the caller.
	handler = &errorHandler{}
)

// SetErrorHandler sets the package level handler that will be used when an
// error occurs after a Point of No Return and no error may be returned to
// caller (e.g. while writing to http.ResponseWriter)
//
// By default, these errors are thrown away.
func SetErrorHandler(h ErrorHandler) {
	handler.mu.Lock()
	defer handler.mu.Unlock()
	handler.handler = h
}

// ErrorHandlerFunc adapts an ordinary function to an ErrorHandler.
type ErrorHandlerFunc func(error)

// Handle calls fn(err).
func (fn ErrorHandlerFunc) Handle(err error) {
	fn(err)
}

// NewLogrusHandler returns an ErrorHandler logging each error at warning
// level. The status code and, for rejected statuses, the kind are attached
// as fields.
func NewLogrusHandler(logger logrus.FieldLogger) ErrorHandler {
	return ErrorHandlerFunc(func(err error) {
		code, _ := codeOf(err)
		entry := logger.WithError(err).WithField("code", CodeName(code))

		var invalid *invalidError
		if errors.As(err, &invalid) {
			entry = entry.WithField("kind", invalid.kind.String())
		}
		entry.Warn("errstatus: unhandled error")
	})
}
