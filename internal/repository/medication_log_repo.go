package repository

import (
	"context"
	"fmt"
	"time"
)

// MedicationLogRepository defines operations for daily adherence logs
type MedicationLogRepository interface {
	InsertIfAbsent(ctx context.Context, userID, medicationID int64, date time.Time) (bool, error)
	CountDistinctDates(ctx context.Context, userID int64, since *time.Time) (int, error)
}

type medicationLogRepository struct {
	db DB
}

// NewMedicationLogRepository creates a new MedicationLogRepository
func NewMedicationLogRepository(db DB) MedicationLogRepository {
	return &medicationLogRepository{db: db}
}

// InsertIfAbsent records the user's log for date in a single statement.
// It reports false when a log for (userID, date) already existed.
func (r *medicationLogRepository) InsertIfAbsent(ctx context.Context, userID, medicationID int64, date time.Time) (bool, error) {
	sql := `INSERT INTO medication_logs (user_id, medication_id, log_date)
            VALUES ($1, $2, $3) ON CONFLICT (user_id, log_date) DO NOTHING`
	cmdTag, err := r.db.Exec(ctx, sql, userID, medicationID, date)
	if err != nil {
		return false, fmt.Errorf("failed to insert medication log: %w", err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

// CountDistinctDates counts the distinct days the user logged. A nil since
// counts every day; otherwise only days on or after since are counted.
func (r *medicationLogRepository) CountDistinctDates(ctx context.Context, userID int64, since *time.Time) (int, error) {
	sql := `SELECT COUNT(DISTINCT log_date) FROM medication_logs WHERE user_id = $1`
	args := []interface{}{userID}
	if since != nil {
		sql += ` AND log_date >= $2`
		args = append(args, *since)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count medication log dates: %w", err)
	}
	return int(count), nil
}
