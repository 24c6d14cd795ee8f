package utils

import (
	"time"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

// Logging is a decorator that writes one log entry per transaction, with
// the message path, the time spent and the error if any.
type Logging struct{}

var _ testament.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> error, success -> debug
func (Logging) Check(ctx testament.Context, store testament.KVStore, tx testament.Tx, next testament.Checker) (*testament.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (Logging) Deliver(ctx testament.Context, store testament.KVStore, tx testament.Tx, next testament.Deliverer) (*testament.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
		if n := len(res.Events); n > 0 {
			ctx = testament.WithLogInfo(ctx, "events", n)
		}
	}
	logDuration(ctx, tx, start, resLog, err, false)
	return res, err
}

func logDuration(ctx testament.Context, tx testament.Tx, start time.Time, msg string, err error, lowPrio bool) {
	logger := testament.GetLogger(ctx).With(
		"path", testament.GetPath(tx),
		"duration", time.Since(start)/time.Microsecond,
	)

	// An entry is written even for an empty message, the key/value pairs
	// carry the relevant information.
	switch {
	case err != nil:
		code, _ := errors.Info(err, true)
		logger.Error(msg, "err", err, "code", code)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
