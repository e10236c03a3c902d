package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/GHanamaAhmed/cancer-detection/internal/audit"
	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

type ConfirmAppointment struct {
	repo      domain.Repository
	audit     *audit.Dispatcher
	notifier  Notifier
	reminders ReminderScheduler
	checkout  Checkout
	log       *zap.Logger
	now       nowFunc
}

// NewConfirmAppointment accepts nil reminders and checkout; the matching
// side effect is then skipped.
func NewConfirmAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier Notifier,
	reminders ReminderScheduler,
	checkout Checkout,
	log *zap.Logger,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:      repo,
		audit:     audit,
		notifier:  notifier,
		reminders: reminders,
		checkout:  checkout,
		log:       log,
		now:       time.Now,
	}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	doctorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := loadForDoctor(ctx, uc.repo, appointmentID, doctorID)
	if err != nil {
		return nil, err
	}

	if err := domain.Confirm(ap, uc.now()); err != nil {
		return nil, err
	}

	// payment link is best effort: a confirmed consultation without one can
	// still be paid at the clinic
	if uc.checkout != nil && ap.Service != nil && ap.Service.Price > 0 {
		prefID, url, err := uc.checkout.CreateCheckout(ctx, ap, ap.Service)
		if err != nil {
			uc.log.Warn("checkout creation failed", zap.Uint("appointment_id", ap.ID), zap.Error(err))
		} else {
			ap.PaymentPreferenceID = prefID
			ap.PaymentURL = url
		}
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	if uc.reminders != nil {
		if err := uc.reminders.ScheduleReminder(ctx, ap); err != nil {
			uc.log.Warn("reminder scheduling failed", zap.Uint("appointment_id", ap.ID), zap.Error(err))
		}
	}

	announce(ctx, uc.notifier, uc.audit, ap, doctorID, "appointment_confirmed", "Appointment confirmed")

	return ap, nil
}
