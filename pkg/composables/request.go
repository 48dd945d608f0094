package composables

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hradmin/pkg/constants"
	"github.com/iota-uz/hradmin/pkg/logging"
)

// UseLogger returns the request-scoped logger, or a no-op logger outside a request.
func UseLogger(ctx context.Context) *logrus.Entry {
	if logger, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry); ok && logger != nil {
		return logger
	}
	return logging.Nop()
}

// UseRequestID returns the id assigned by the logging middleware.
// If there is none, the second return value is false.
func UseRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(constants.RequestIDKey).(string)
	return id, ok && id != ""
}
