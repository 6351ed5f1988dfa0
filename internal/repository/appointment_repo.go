package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"appointment_booking/internal/model"

	"github.com/jackc/pgx/v5"
)

// AppointmentRepository defines operations for appointment data
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	FindByStudent(ctx context.Context, studentID string) ([]model.Appointment, error)
	FindByTeacher(ctx context.Context, teacherID string) ([]model.Appointment, error)
	FindOwnedByTeacher(ctx context.Context, id, teacherID string) (*model.Appointment, error)
	UpdateStatusIfPending(ctx context.Context, id, teacherID string, status model.AppointmentStatus) (*model.Appointment, error)
	DeleteOwnedByStudent(ctx context.Context, id, studentID string) (bool, error)
}

type appointmentRepository struct {
	db DBTX
}

// NewAppointmentRepository creates a new AppointmentRepository
func NewAppointmentRepository(db DBTX) AppointmentRepository {
	return &appointmentRepository{db: db}
}

const appointmentColumns = `id, student_id, teacher_id, appointment_date, appointment_time, status, created_at, updated_at`

func scanAppointment(row pgx.Row, a *model.Appointment) error {
	var date time.Time
	if err := row.Scan(&a.ID, &a.StudentID, &a.TeacherID, &date, &a.Time, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return err
	}
	a.Date = model.NewDate(date)
	return nil
}

// Create inserts a new appointment into the database
func (r *appointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	sql := `INSERT INTO appointments (id, student_id, teacher_id, appointment_date, appointment_time, status, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, sql, a.ID, a.StudentID, a.TeacherID, a.Date.Time, a.Time, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// FindByStudent lists a student's appointments in insertion order
func (r *appointmentRepository) FindByStudent(ctx context.Context, studentID string) ([]model.Appointment, error) {
	return r.query(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE student_id = $1 ORDER BY created_at, id`, studentID)
}

// FindByTeacher lists a teacher's appointments in insertion order
func (r *appointmentRepository) FindByTeacher(ctx context.Context, teacherID string) ([]model.Appointment, error) {
	return r.query(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE teacher_id = $1 ORDER BY created_at, id`, teacherID)
}

// FindOwnedByTeacher returns the appointment only if teacherID owns it.
// Returns nil, nil otherwise.
func (r *appointmentRepository) FindOwnedByTeacher(ctx context.Context, id, teacherID string) (*model.Appointment, error) {
	a := &model.Appointment{}
	sql := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 AND teacher_id = $2`
	if err := scanAppointment(r.db.QueryRow(ctx, sql, id, teacherID), a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}
	return a, nil
}

// UpdateStatusIfPending sets status in one conditional write: the row must
// belong to teacherID and still be Pending. Returns nil, nil when nothing matched.
func (r *appointmentRepository) UpdateStatusIfPending(ctx context.Context, id, teacherID string, status model.AppointmentStatus) (*model.Appointment, error) {
	a := &model.Appointment{}
	sql := `UPDATE appointments SET status = $1, updated_at = NOW()
            WHERE id = $2 AND teacher_id = $3 AND status = $4
            RETURNING ` + appointmentColumns
	if err := scanAppointment(r.db.QueryRow(ctx, sql, status, id, teacherID, model.StatusPending), a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	return a, nil
}

// DeleteOwnedByStudent removes the appointment if studentID owns it.
// Reports whether a row was deleted.
func (r *appointmentRepository) DeleteOwnedByStudent(ctx context.Context, id, studentID string) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1 AND student_id = $2`, id, studentID)
	if err != nil {
		return false, fmt.Errorf("failed to delete appointment: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

func (r *appointmentRepository) query(ctx context.Context, sql string, args ...any) ([]model.Appointment, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var appointments []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan appointment row: %w", err)
		}
		appointments = append(appointments, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointment rows: %w", err)
	}
	return appointments, nil
}
