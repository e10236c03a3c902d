package appointment

import (
	"context"

	"github.com/GHanamaAhmed/cancer-detection/internal/models"
	"github.com/GHanamaAhmed/cancer-detection/internal/notify"
)

type Notifier interface {
	Notify(ctx context.Context, userID uint, n notify.Notification)
}

// ReminderScheduler queues the pre-appointment reminder.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, ap *models.Appointment) error
}

// Checkout creates a payment link for a priced consultation.
type Checkout interface {
	CreateCheckout(
		ctx context.Context,
		ap *models.Appointment,
		svc *models.ConsultationService,
	) (preferenceID string, url string, err error)
}
