package service

import (
	"errors"
	"strings"
	"sync"
	"time"

	"appointment_booking/internal/model"
	"appointment_booking/internal/repository/repotest"
)

var errStoreDown = errors.New("store unavailable")

// seedUser adds a user directly to the store and returns its identity.
func seedUser(repo *repotest.UserStore, id, name string, role model.Role) model.Identity {
	repo.Seed(model.User{
		ID:        id,
		Name:      name,
		Email:     strings.ToLower(name) + "@example.com",
		Role:      role,
		CreatedAt: time.Now().UTC(),
	})
	return model.Identity{UserID: id, Role: role}
}

type countingRecorder struct {
	mu            sync.Mutex
	registrations map[string]int
	logins        map[bool]int
	created       int
	statusChanges map[string]int
	deleted       int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		registrations: map[string]int{},
		logins:        map[bool]int{},
		statusChanges: map[string]int{},
	}
}

func (c *countingRecorder) RecordRegistration(role string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registrations[role]++
}

func (c *countingRecorder) RecordLogin(success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logins[success]++
}

func (c *countingRecorder) RecordAppointmentCreated() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.created++
}

func (c *countingRecorder) RecordStatusChange(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusChanges[status]++
}

func (c *countingRecorder) RecordAppointmentDeleted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted++
}

func (c *countingRecorder) RecordHTTPRequest(string, string, int, time.Duration) {}
