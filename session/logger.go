package session

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the session package's logger, a no-op logger unless
// SetLogger installed one.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// SetLogger configures the session package's logger. Sessions capture it
// when they open, with their id attached.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
