package obs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID stores a request id for later log correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(RequestIDKey).(string)
	return reqID
}

// Time starts timing an operation. Call the returned func with a pointer to
// the operation's named error on exit.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		status := "ok"
		entry := logrus.WithFields(logrus.Fields{
			"req_id": reqID,
			"op":     name,
			"dur_ms": dur.Milliseconds(),
		})
		if errp != nil && *errp != nil {
			status = "error"
			entry.WithError(*errp).Warn("operation failed")
		} else {
			entry.Debug("operation finished")
		}

		OperationDuration.WithLabelValues(name, status).Observe(dur.Seconds())
	}
}
