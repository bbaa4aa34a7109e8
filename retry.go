package errstatus

import (
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryDelayOf reports the retry delay recommended by the outermost
// RetriableError in the chain.
func RetryDelayOf(err error) (time.Duration, bool) {
	var retErr RetriableError
	if !errors.As(err, &retErr) {
		return 0, false
	}
	return retErr.GetRetryDelay(), true
}

// HintedBackOff returns a BackOff that never waits less than the retry delay
// recommended by err. Without a recommendation b is returned unchanged.
//
// Only the delay is adjusted; when and whether to retry, and for how long,
// stay with b and its caller.
func HintedBackOff(err error, b backoff.BackOff) backoff.BackOff {
	delay, ok := RetryDelayOf(err)
	if !ok || delay <= 0 {
		return b
	}
	return &hintedBackOff{BackOff: b, floor: delay}
}

type hintedBackOff struct {
	backoff.BackOff
	floor time.Duration
}

// NextBackOff implements backoff.BackOff.
func (h *hintedBackOff) NextBackOff() time.Duration {
	next := h.BackOff.NextBackOff()
	if next == backoff.Stop || next >= h.floor {
		return next
	}
	return h.floor
}
