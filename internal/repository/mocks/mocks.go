// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"medtracker/internal/model"

	"github.com/stretchr/testify/mock"
)

// UserRepository is a mock of repository.UserRepository
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MedicationRepository is a mock of repository.MedicationRepository
type MedicationRepository struct {
	mock.Mock
}

func (m *MedicationRepository) Create(ctx context.Context, medication *model.Medication) error {
	args := m.Called(ctx, medication)
	return args.Error(0)
}

func (m *MedicationRepository) FindByUser(ctx context.Context, userID int64, today time.Time) ([]model.Medication, error) {
	args := m.Called(ctx, userID, today)
	if meds := args.Get(0); meds != nil {
		return meds.([]model.Medication), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MedicationRepository) FindByIDForUser(ctx context.Context, id, userID int64) (*model.Medication, error) {
	args := m.Called(ctx, id, userID)
	if med := args.Get(0); med != nil {
		return med.(*model.Medication), args.Error(1)
	}
	return nil, args.Error(1)
}

// MedicationLogRepository is a mock of repository.MedicationLogRepository
type MedicationLogRepository struct {
	mock.Mock
}

func (m *MedicationLogRepository) InsertIfAbsent(ctx context.Context, userID, medicationID int64, date time.Time) (bool, error) {
	args := m.Called(ctx, userID, medicationID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MedicationLogRepository) CountDistinctDates(ctx context.Context, userID int64, since *time.Time) (int, error) {
	args := m.Called(ctx, userID, since)
	return args.Int(0), args.Error(1)
}
