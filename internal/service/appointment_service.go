package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"appointment_booking/internal/metrics"
	"appointment_booking/internal/model"
	"appointment_booking/internal/repository"
	"appointment_booking/internal/statemachine"

	"github.com/google/uuid"
)

var (
	ErrForbidden              = errors.New("forbidden: role not permitted for this action")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrNotFoundOrUnauthorized = errors.New("appointment not found or not authorized")
	ErrInvalidTransition      = errors.New("invalid status transition")
)

// AppointmentService decides which appointment operations a caller may perform
type AppointmentService interface {
	Create(ctx context.Context, caller model.Identity, req model.CreateAppointmentRequest) (*model.Appointment, error)
	List(ctx context.Context, caller model.Identity) ([]model.Appointment, error)
	UpdateStatus(ctx context.Context, caller model.Identity, id string, status model.AppointmentStatus) (*model.Appointment, error)
	Delete(ctx context.Context, caller model.Identity, id string) error
}

type appointmentService struct {
	repo     repository.AppointmentRepository
	userRepo repository.UserRepository
	metrics  metrics.Recorder
}

// NewAppointmentService creates a new AppointmentService
func NewAppointmentService(repo repository.AppointmentRepository, userRepo repository.UserRepository, rec metrics.Recorder) AppointmentService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &appointmentService{repo: repo, userRepo: userRepo, metrics: rec}
}

func (s *appointmentService) Create(ctx context.Context, caller model.Identity, req model.CreateAppointmentRequest) (*model.Appointment, error) {
	if caller.Role != model.RoleStudent {
		return nil, ErrForbidden
	}

	teacherID := strings.TrimSpace(req.TeacherID)
	if teacherID == "" {
		return nil, fmt.Errorf("%w: teacher_id is required", ErrInvalidArgument)
	}
	date, err := model.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	tod, err := model.ParseTimeOfDay(strings.TrimSpace(req.Time))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	teacher, err := s.userRepo.FindByID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up teacher: %w", err)
	}
	if teacher == nil || teacher.Role != model.RoleTeacher {
		return nil, fmt.Errorf("%w: teacher_id does not reference a teacher", ErrInvalidArgument)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate appointment id: %w", err)
	}

	now := time.Now().UTC()
	appointment := &model.Appointment{
		ID:        id.String(),
		StudentID: caller.UserID,
		TeacherID: teacherID,
		Date:      date,
		Time:      tod,
		Status:    statemachine.InitialStatus,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment in repo: %w", err)
	}

	s.metrics.RecordAppointmentCreated()
	slog.InfoContext(ctx, "appointment created",
		"appointment_id", appointment.ID,
		"student_id", appointment.StudentID,
		"teacher_id", appointment.TeacherID)
	return appointment, nil
}

func (s *appointmentService) List(ctx context.Context, caller model.Identity) ([]model.Appointment, error) {
	var (
		appointments []model.Appointment
		err          error
	)
	switch caller.Role {
	case model.RoleStudent:
		appointments, err = s.repo.FindByStudent(ctx, caller.UserID)
	case model.RoleTeacher:
		appointments, err = s.repo.FindByTeacher(ctx, caller.UserID)
	default:
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	if appointments == nil {
		appointments = []model.Appointment{}
	}
	return appointments, nil
}

func (s *appointmentService) UpdateStatus(ctx context.Context, caller model.Identity, id string, status model.AppointmentStatus) (*model.Appointment, error) {
	if caller.Role != model.RoleTeacher {
		return nil, ErrForbidden
	}
	if !status.Valid() || !statemachine.IsTarget(status) {
		return nil, fmt.Errorf("%w: status must be one of %s, %s", ErrInvalidArgument, model.StatusConfirmed, model.StatusRejected)
	}

	updated, err := s.repo.UpdateStatusIfPending(ctx, id, caller.UserID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	if updated != nil {
		s.metrics.RecordStatusChange(string(status))
		slog.InfoContext(ctx, "appointment status changed",
			"appointment_id", id, "teacher_id", caller.UserID, "status", status)
		return updated, nil
	}

	// Nothing matched: either not this teacher's appointment, or no longer Pending.
	existing, err := s.repo.FindOwnedByTeacher(ctx, id, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}
	if existing == nil {
		return nil, ErrNotFoundOrUnauthorized
	}
	if err := statemachine.CanTransition(existing.Status, status, caller.Role); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	return nil, fmt.Errorf("%w: appointment %s changed concurrently", ErrInvalidTransition, id)
}

func (s *appointmentService) Delete(ctx context.Context, caller model.Identity, id string) error {
	if caller.Role != model.RoleStudent {
		return ErrForbidden
	}
	deleted, err := s.repo.DeleteOwnedByStudent(ctx, id, caller.UserID)
	if err != nil {
		return fmt.Errorf("failed to delete appointment in repo: %w", err)
	}
	if !deleted {
		return ErrNotFoundOrUnauthorized
	}

	s.metrics.RecordAppointmentDeleted()
	slog.InfoContext(ctx, "appointment deleted", "appointment_id", id, "student_id", caller.UserID)
	return nil
}
