package adapter

import (
	"log/slog"

	"github.com/mmcdole/campus/internal/domain"
)

// LogNotifier writes notifications to the log. Used where no UI is attached.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs through logger
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(note domain.Notification) {
	if note.Level == domain.LevelError {
		n.logger.Warn("notification", "message", note.Message)
		return
	}
	n.logger.Info("notification", "message", note.Message)
}

// FanoutNotifier delivers each notification to every target
type FanoutNotifier []domain.Notifier

func (f FanoutNotifier) Notify(note domain.Notification) {
	for _, n := range f {
		n.Notify(note)
	}
}
