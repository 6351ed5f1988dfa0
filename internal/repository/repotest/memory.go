// Package repotest provides in-memory repositories for tests.
// They follow the same contracts as the Postgres implementations.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"appointment_booking/internal/model"
	"appointment_booking/internal/repository"
)

// UserStore is an in-memory repository.UserRepository.
// Setting Err makes every call fail with it.
type UserStore struct {
	mu    sync.Mutex
	users []model.User
	Err   error
}

var _ repository.UserRepository = (*UserStore)(nil)

// Seed inserts u without any checks.
func (s *UserStore) Seed(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
}

// All returns a copy of the stored users in insertion order.
func (s *UserStore) All() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.User(nil), s.users...)
}

func (s *UserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	s.users = append(s.users, *user)
	return nil
}

func (s *UserStore) find(match func(model.User) bool) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *UserStore) filter(keep func(model.User) bool) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.User
	for _, u := range s.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return s.find(func(u model.User) bool { return u.Email == email })
}

func (s *UserStore) FindByID(_ context.Context, id string) (*model.User, error) {
	return s.find(func(u model.User) bool { return u.ID == id })
}

func (s *UserStore) FindAll(_ context.Context) ([]model.User, error) {
	return s.filter(func(model.User) bool { return true })
}

func (s *UserStore) FindByRole(_ context.Context, role model.Role) ([]model.User, error) {
	out, err := s.filter(func(u model.User) bool { return u.Role == role })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *UserStore) FindByIDs(_ context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return s.filter(func(u model.User) bool { return want[u.ID] })
}

// AppointmentStore is an in-memory repository.AppointmentRepository.
// Setting Err makes every call fail with it.
type AppointmentStore struct {
	mu           sync.Mutex
	appointments []model.Appointment
	Err          error
}

var _ repository.AppointmentRepository = (*AppointmentStore)(nil)

// All returns a copy of the stored appointments in insertion order.
func (s *AppointmentStore) All() []model.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Appointment(nil), s.appointments...)
}

func (s *AppointmentStore) Create(_ context.Context, a *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.appointments = append(s.appointments, *a)
	return nil
}

func (s *AppointmentStore) filter(keep func(model.Appointment) bool) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Appointment
	for _, a := range s.appointments {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *AppointmentStore) FindByStudent(_ context.Context, studentID string) ([]model.Appointment, error) {
	return s.filter(func(a model.Appointment) bool { return a.StudentID == studentID })
}

func (s *AppointmentStore) FindByTeacher(_ context.Context, teacherID string) ([]model.Appointment, error) {
	return s.filter(func(a model.Appointment) bool { return a.TeacherID == teacherID })
}

func (s *AppointmentStore) FindOwnedByTeacher(_ context.Context, id, teacherID string) (*model.Appointment, error) {
	out, err := s.filter(func(a model.Appointment) bool { return a.ID == id && a.TeacherID == teacherID })
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

func (s *AppointmentStore) UpdateStatusIfPending(_ context.Context, id, teacherID string, status model.AppointmentStatus) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for i := range s.appointments {
		a := &s.appointments[i]
		if a.ID == id && a.TeacherID == teacherID && a.Status == model.StatusPending {
			a.Status = status
			a.UpdatedAt = time.Now().UTC()
			out := *a
			return &out, nil
		}
	}
	return nil, nil
}

func (s *AppointmentStore) DeleteOwnedByStudent(_ context.Context, id, studentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for i, a := range s.appointments {
		if a.ID == id && a.StudentID == studentID {
			s.appointments = append(s.appointments[:i], s.appointments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
