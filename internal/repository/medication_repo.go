package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medtracker/internal/model"

	"github.com/jackc/pgx/v5"
)

// MedicationRepository defines operations for medication data
type MedicationRepository interface {
	Create(ctx context.Context, medication *model.Medication) error
	FindByUser(ctx context.Context, userID int64, today time.Time) ([]model.Medication, error)
	FindByIDForUser(ctx context.Context, id, userID int64) (*model.Medication, error)
}

type medicationRepository struct {
	db DB
}

// NewMedicationRepository creates a new MedicationRepository
func NewMedicationRepository(db DB) MedicationRepository {
	return &medicationRepository{db: db}
}

// Create inserts a new medication into the database
func (r *medicationRepository) Create(ctx context.Context, m *model.Medication) error {
	sql := `INSERT INTO medications (user_id, name, dosage, frequency)
            VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, sql, m.UserID, m.Name, m.Dosage, m.Frequency).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create medication: %w", err)
	}
	return nil
}

// FindByUser retrieves every medication owned by userID. TakenToday is set
// when the user already has a log for today.
func (r *medicationRepository) FindByUser(ctx context.Context, userID int64, today time.Time) ([]model.Medication, error) {
	sql := `SELECT m.id, m.user_id, m.name, m.dosage, m.frequency, m.created_at,
                   EXISTS (SELECT 1 FROM medication_logs l WHERE l.user_id = m.user_id AND l.log_date = $2)
            FROM medications m WHERE m.user_id = $1 ORDER BY m.id`

	rows, err := r.db.Query(ctx, sql, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to query medications by user: %w", err)
	}
	defer rows.Close()

	medications := make([]model.Medication, 0)
	for rows.Next() {
		var m model.Medication
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Dosage, &m.Frequency, &m.CreatedAt, &m.TakenToday); err != nil {
			return nil, fmt.Errorf("failed to scan medication row: %w", err)
		}
		medications = append(medications, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating medication rows: %w", err)
	}
	return medications, nil
}

// FindByIDForUser retrieves a medication only if it is owned by userID
func (r *medicationRepository) FindByIDForUser(ctx context.Context, id, userID int64) (*model.Medication, error) {
	m := &model.Medication{}
	sql := `SELECT id, user_id, name, dosage, frequency, created_at
            FROM medications WHERE id = $1 AND user_id = $2`
	err := r.db.QueryRow(ctx, sql, id, userID).Scan(&m.ID, &m.UserID, &m.Name, &m.Dosage, &m.Frequency, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found or owned by someone else
		}
		return nil, fmt.Errorf("failed to find medication by ID: %w", err)
	}
	return m, nil
}
