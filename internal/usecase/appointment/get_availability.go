package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
	"github.com/GHanamaAhmed/cancer-detection/internal/domain/availability"
	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
	"github.com/GHanamaAhmed/cancer-detection/internal/timezone"
)

const maxAvailabilityDays = 62

// Settings are the process-wide scheduling defaults. Facility values win
// when they are set.
type Settings struct {
	SlotMinutes          int
	SameDayBufferMinutes int
	WindowDays           int
	DefaultTimezone      string
}

type AvailabilityResult struct {
	DoctorID    uint
	Timezone    string
	SlotMinutes int
	Days        []availability.Day
}

type GetAvailability struct {
	repo     domain.Repository
	settings Settings
	log      *zap.Logger
	clock    func() time.Time
}

func NewGetAvailability(
	repo domain.Repository,
	settings Settings,
	log *zap.Logger,
) *GetAvailability {
	return &GetAvailability{
		repo:     repo,
		settings: settings,
		log:      log,
		clock:    time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute serves both the doctor's own calendar and the patient booking
// view; the only difference is the same-day lead time.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*AvailabilityResult, error) {

	facility, err := uc.repo.GetFacilityByDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, httperr.ErrBusiness("facility_not_found")
	}

	loc := timezone.Location(facility.Timezone, uc.settings.DefaultTimezone)
	now := uc.clock().In(loc)

	rangeStart, rangeEnd, err := uc.resolveRange(in.From, in.To, now)
	if err != nil {
		return nil, err
	}

	slotMinutes := pick(facility.SlotMinutes, uc.settings.SlotMinutes, availability.DefaultSlotMinutes)
	buffer := pick(facility.SameDayBufferMinutes, uc.settings.SameDayBufferMinutes, availability.DefaultSameDayBufferMinutes)
	if in.SelfService {
		buffer = 0
	}

	result := &AvailabilityResult{
		DoctorID:    in.DoctorID,
		Timezone:    loc.String(),
		SlotMinutes: slotMinutes,
		Days:        []availability.Day{},
	}

	if rangeEnd.Before(rangeStart) {
		return result, nil
	}

	rows, err := uc.repo.ListRules(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}

	booked, err := uc.repo.ListOccupying(
		ctx,
		in.DoctorID,
		rangeStart,
		timezone.AddDays(rangeEnd, 1),
	)
	if err != nil {
		return nil, err
	}

	opts := availability.Options{
		SlotMinutes:          slotMinutes,
		SameDayBufferMinutes: buffer,
		Now:                  now,
		IncludeEmptyDays:     in.IncludeEmptyDays,
		OnInvalidRule: func(rule availability.Rule, day time.Time) {
			uc.log.Warn("availability rule has an empty window",
				zap.Uint("doctor_id", rule.DoctorID),
				zap.Int("weekday", rule.Weekday),
				zap.String("start", rule.StartTime),
				zap.String("end", rule.EndTime),
				zap.String("date", day.Format("2006-01-02")),
			)
		},
	}

	result.Days = availability.Generate(
		domain.ToRules(rows),
		domain.ToBookings(booked),
		rangeStart,
		rangeEnd,
		opts,
	)

	return result, nil
}

func (uc *GetAvailability) resolveRange(
	from string,
	to string,
	now time.Time,
) (time.Time, time.Time, error) {

	loc := now.Location()

	start := timezone.StartOfDay(now)
	if from != "" {
		d, err := timezone.ParseDate(from, loc)
		if err != nil {
			return time.Time{}, time.Time{}, httperr.ErrBusiness("invalid_date")
		}
		start = d
	}

	windowDays := uc.settings.WindowDays
	if windowDays <= 0 {
		windowDays = 14
	}
	end := timezone.AddDays(start, windowDays-1)
	if to != "" {
		d, err := timezone.ParseDate(to, loc)
		if err != nil {
			return time.Time{}, time.Time{}, httperr.ErrBusiness("invalid_date")
		}
		end = d
	}

	if timezone.DaysBetween(start, end) > maxAvailabilityDays {
		return time.Time{}, time.Time{}, httperr.ErrBusiness("range_too_large")
	}

	return start, end, nil
}

func pick(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// facilityLocation is shared by the booking use cases.
func facilityLocation(f *models.Facility, fallback string) *time.Location {
	return timezone.Location(f.Timezone, fallback)
}
