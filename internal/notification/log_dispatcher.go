package notification

import (
	"github.com/charmbracelet/log"

	"github.com/clubsuite/elections-api/internal/logger"
)

// LogDispatcher records notifications on the service log instead of
// handing them to a delivery queue. Used in development and tests.
type LogDispatcher struct {
	log *log.Logger
}

func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{log: logger.Notification()}
}

func (d *LogDispatcher) Dispatch(msg Message) error {
	d.log.Info("notification dispatched",
		"kind", msg.Kind,
		"recipient", msg.Recipient.Email,
		"data", msg.Data)
	return nil
}
