package graphstore

import "go.uber.org/zap"

// logger is the package-level structured logger. It defaults to a no-op
// logger so embedding a Graph in an application that never calls
// SetLogger costs nothing; callers that want visibility into rejected
// node/edge insertions and failures during graph construction and node
// removal (all logged at Warn) call SetLogger with their own *zap.Logger.
var logger = zap.NewNop()

// SetLogger installs l as the package-wide structured logger. Pass nil to
// restore the no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = zap.NewNop()
		return
	}
	logger = l
}
