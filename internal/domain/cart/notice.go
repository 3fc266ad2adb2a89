package cart

import (
	"strings"

	"go.uber.org/zap"
)

// NoticeKind classifies a user-facing notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notifier presents transient user-facing notices (toasts). It is the only
// outward side-effecting dependency of the cart core.
type Notifier interface {
	Show(message string, kind NoticeKind)
}

// LogNotifier is the fallback Notifier used when no presenter is attached.
// It writes a "[KIND] message" line to the logger.
type LogNotifier struct {
	lg *zap.Logger
}

// NewLogNotifier returns a Notifier that logs notices via lg.
func NewLogNotifier(lg *zap.Logger) *LogNotifier {
	return &LogNotifier{lg: lg}
}

// Show logs the notice as "[KIND] message".
func (n *LogNotifier) Show(message string, kind NoticeKind) {
	n.lg.Info("[" + strings.ToUpper(string(kind)) + "] " + message)
}
