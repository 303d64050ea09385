package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/complaint-management/internal/core/events"
)

// Notifier reacts to complaint lifecycle events and records the notification
// that would go to the complaint owner. Delivery is a log line today; a mail
// or push channel can plug in behind the same handlers.
type Notifier struct {
	logger *slog.Logger
}

func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// RegisterHandlers subscribes the notifier to the lifecycle events it cares
// about.
func (n *Notifier) RegisterHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeComplaintCreated, n.handleComplaintCreated)
	bus.Subscribe(events.EventTypeComplaintStatusChanged, n.handleStatusChanged)
}

func (n *Notifier) handleComplaintCreated(ctx context.Context, event events.Event) error {
	created, ok := event.(*events.ComplaintCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	n.logger.Info("notify: complaint received",
		"complaint_id", created.ComplaintID,
		"complaint_number", created.ComplaintNumber,
		"user_id", created.UserID,
		"priority", created.Priority)
	return nil
}

func (n *Notifier) handleStatusChanged(ctx context.Context, event events.Event) error {
	changed, ok := event.(*events.ComplaintStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	n.logger.Info("notify: complaint status changed",
		"complaint_id", changed.ComplaintID,
		"complaint_number", changed.ComplaintNumber,
		"owner_id", changed.OwnerID,
		"old_status", changed.OldStatus,
		"new_status", changed.NewStatus,
		"note", changed.Note)
	return nil
}
