package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"medtracker/internal/model"
	"medtracker/internal/realtime"
	"medtracker/internal/repository"

	"github.com/sirupsen/logrus"
)

var ErrMedicationNotFound = errors.New("medication not found")

// MedicationService defines operations for medications and adherence
type MedicationService interface {
	AddMedication(ctx context.Context, userID int64, req model.CreateMedicationRequest) (*model.Medication, error)
	ListMedications(ctx context.Context, userID int64) ([]model.Medication, error)
	MarkTaken(ctx context.Context, userID, medicationID int64) (bool, error)
	GetAdherence(ctx context.Context, userID int64) (int, error)
}

type medicationService struct {
	medRepo    repository.MedicationRepository
	logRepo    repository.MedicationLogRepository
	publisher  realtime.Publisher
	windowDays int
	now        func() time.Time
}

// NewMedicationService creates a new MedicationService. windowDays limits the
// adherence count to recent days (0 counts all days). now defaults to time.Now.
func NewMedicationService(
	medRepo repository.MedicationRepository,
	logRepo repository.MedicationLogRepository,
	publisher realtime.Publisher,
	windowDays int,
	now func() time.Time,
) MedicationService {
	if now == nil {
		now = time.Now
	}
	return &medicationService{
		medRepo:    medRepo,
		logRepo:    logRepo,
		publisher:  publisher,
		windowDays: windowDays,
		now:        now,
	}
}

func (s *medicationService) AddMedication(ctx context.Context, userID int64, req model.CreateMedicationRequest) (*model.Medication, error) {
	m := &model.Medication{
		UserID:    userID,
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
	}
	if err := s.medRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create medication in repo: %w", err)
	}
	return m, nil
}

func (s *medicationService) ListMedications(ctx context.Context, userID int64) ([]model.Medication, error) {
	meds, err := s.medRepo.FindByUser(ctx, userID, s.today())
	if err != nil {
		return nil, fmt.Errorf("failed to get medications from repo: %w", err)
	}
	return meds, nil
}

// MarkTaken records today's log for the user. It reports whether a new log
// was written; only then is the update event published.
func (s *medicationService) MarkTaken(ctx context.Context, userID, medicationID int64) (bool, error) {
	m, err := s.medRepo.FindByIDForUser(ctx, medicationID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to find medication: %w", err)
	}
	if m == nil {
		return false, ErrMedicationNotFound
	}

	today := s.today()
	inserted, err := s.logRepo.InsertIfAbsent(ctx, userID, medicationID, today)
	if err != nil {
		return false, fmt.Errorf("failed to record medication log: %w", err)
	}
	if !inserted {
		return false, nil
	}
	logrus.WithFields(logrus.Fields{
		"user_id":       userID,
		"medication_id": medicationID,
		"date":          today.Format(model.DateLayout),
	}).Info("Medication log recorded")

	event := realtime.Event{
		Event: realtime.EventMedicationUpdate,
		Data:  model.MedicationUpdate{ID: medicationID, Taken: true},
	}
	if err := s.publisher.Publish(ctx, userID, event); err != nil {
		// Delivery is best effort; the log is already stored.
		logrus.WithFields(logrus.Fields{"user_id": userID, "medication_id": medicationID}).
			WithError(err).Warn("Failed to publish medication update")
	}
	return true, nil
}

// GetAdherence returns round(days/30*100) where days is the number of
// distinct logged days. The result is not clamped to 100.
func (s *medicationService) GetAdherence(ctx context.Context, userID int64) (int, error) {
	var since *time.Time
	if s.windowDays > 0 {
		start := s.today().AddDate(0, 0, -(s.windowDays - 1))
		since = &start
	}

	days, err := s.logRepo.CountDistinctDates(ctx, userID, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count logged days: %w", err)
	}
	return AdherencePercent(days), nil
}

// AdherencePercent converts a count of logged days into a percentage of the
// fixed divisor, rounded to the nearest integer.
func AdherencePercent(days int) int {
	return int(math.Round(float64(days) / model.AdherenceDivisor * 100))
}

// today is the server-local calendar date, carried as UTC midnight so the
// driver encodes the same date regardless of the local zone.
func (s *medicationService) today() time.Time {
	t := s.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
