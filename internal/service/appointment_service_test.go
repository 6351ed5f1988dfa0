package service

import (
	"context"
	"sync"
	"testing"

	"appointment_booking/internal/model"
	"appointment_booking/internal/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appointmentFixture struct {
	svc      AppointmentService
	repo     *repotest.AppointmentStore
	users    *repotest.UserStore
	rec      *countingRecorder
	student  model.Identity
	student2 model.Identity
	teacher  model.Identity
	teacher2 model.Identity
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()
	f := &appointmentFixture{
		repo:  &repotest.AppointmentStore{},
		users: &repotest.UserStore{},
		rec:   newCountingRecorder(),
	}
	f.student = seedUser(f.users, "s1", "Sara", model.RoleStudent)
	f.student2 = seedUser(f.users, "s2", "Sven", model.RoleStudent)
	f.teacher = seedUser(f.users, "t1", "Tom", model.RoleTeacher)
	f.teacher2 = seedUser(f.users, "t2", "Tina", model.RoleTeacher)
	f.svc = NewAppointmentService(f.repo, f.users, f.rec)
	return f
}

func (f *appointmentFixture) book(t *testing.T, student model.Identity, teacherID string) *model.Appointment {
	t.Helper()
	a, err := f.svc.Create(context.Background(), student, model.CreateAppointmentRequest{
		TeacherID: teacherID,
		Date:      "2024-06-01",
		Time:      "10:00",
	})
	require.NoError(t, err)
	return a
}

func ids(list []model.Appointment) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}

func TestAppointmentService_Create(t *testing.T) {
	f := newAppointmentFixture(t)

	a := f.book(t, f.student, f.teacher.UserID)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, model.StatusPending, a.Status)
	assert.Equal(t, "s1", a.StudentID)
	assert.Equal(t, "t1", a.TeacherID)
	assert.Equal(t, "2024-06-01", a.Date.String())
	assert.Equal(t, "10:00", a.Time)
	assert.Equal(t, 1, f.rec.created)
}

func TestAppointmentService_Create_Rejects(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	valid := model.CreateAppointmentRequest{TeacherID: "t1", Date: "2024-06-01", Time: "10:00"}

	testCases := []struct {
		name    string
		caller  model.Identity
		req     model.CreateAppointmentRequest
		wantErr error
	}{
		{"teacher cannot book", f.teacher, valid, ErrForbidden},
		{"unknown role", model.Identity{UserID: "x", Role: "Admin"}, valid, ErrForbidden},
		{"bad date", f.student, model.CreateAppointmentRequest{TeacherID: "t1", Date: "01/06/2024", Time: "10:00"}, ErrInvalidArgument},
		{"bad time", f.student, model.CreateAppointmentRequest{TeacherID: "t1", Date: "2024-06-01", Time: "25:00"}, ErrInvalidArgument},
		{"blank teacher", f.student, model.CreateAppointmentRequest{TeacherID: " ", Date: "2024-06-01", Time: "10:00"}, ErrInvalidArgument},
		{"unknown teacher", f.student, model.CreateAppointmentRequest{TeacherID: "nope", Date: "2024-06-01", Time: "10:00"}, ErrInvalidArgument},
		{"student as teacher", f.student, model.CreateAppointmentRequest{TeacherID: "s2", Date: "2024-06-01", Time: "10:00"}, ErrInvalidArgument},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := f.svc.Create(ctx, tc.caller, tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, a)
		})
	}
	assert.Empty(t, f.repo.All())
}

func TestAppointmentService_Create_StoreFailure(t *testing.T) {
	f := newAppointmentFixture(t)
	f.repo.Err = errStoreDown

	_, err := f.svc.Create(context.Background(), f.student, model.CreateAppointmentRequest{TeacherID: "t1", Date: "2024-06-01", Time: "10:00"})
	assert.ErrorIs(t, err, errStoreDown)
}

func TestAppointmentService_List_ScopedToCaller(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	a1 := f.book(t, f.student, "t1")
	a2 := f.book(t, f.student2, "t1")
	a3 := f.book(t, f.student, "t2")

	mine, err := f.svc.List(ctx, f.student)
	require.NoError(t, err)
	assert.Equal(t, []string{a1.ID, a3.ID}, ids(mine))
	for _, a := range mine {
		assert.Equal(t, f.student.UserID, a.StudentID)
	}

	teaching, err := f.svc.List(ctx, f.teacher)
	require.NoError(t, err)
	assert.Equal(t, []string{a1.ID, a2.ID}, ids(teaching))

	other, err := f.svc.List(ctx, f.teacher2)
	require.NoError(t, err)
	assert.Equal(t, []string{a3.ID}, ids(other))

	empty, err := f.svc.List(ctx, model.Identity{UserID: "s9", Role: model.RoleStudent})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = f.svc.List(ctx, model.Identity{UserID: "x", Role: "Admin"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAppointmentService_UpdateStatus(t *testing.T) {
	f := newAppointmentFixture(t)
	a := f.book(t, f.student, "t1")

	updated, err := f.svc.UpdateStatus(context.Background(), f.teacher, a.ID, model.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, updated.Status)
	assert.Equal(t, 1, f.rec.statusChanges["Rejected"])
}

func TestAppointmentService_UpdateStatus_Rejects(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	a := f.book(t, f.student, "t1")

	testCases := []struct {
		name    string
		caller  model.Identity
		id      string
		status  model.AppointmentStatus
		wantErr error
	}{
		{"student cannot decide", f.student, a.ID, model.StatusConfirmed, ErrForbidden},
		{"back to pending", f.teacher, a.ID, model.StatusPending, ErrInvalidArgument},
		{"unknown status", f.teacher, a.ID, "Cancelled", ErrInvalidArgument},
		{"other teacher", f.teacher2, a.ID, model.StatusConfirmed, ErrNotFoundOrUnauthorized},
		{"missing id", f.teacher2, "does-not-exist", model.StatusConfirmed, ErrNotFoundOrUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.UpdateStatus(ctx, tc.caller, tc.id, tc.status)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	// untouched by every failed attempt
	list, err := f.svc.List(ctx, f.student)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, list[0].Status)
}

func TestAppointmentService_UpdateStatus_TerminalStates(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	a := f.book(t, f.student, "t1")

	_, err := f.svc.UpdateStatus(ctx, f.teacher, a.ID, model.StatusConfirmed)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, f.teacher, a.ID, model.StatusRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "terminal state")

	_, err = f.svc.UpdateStatus(ctx, f.teacher, a.ID, model.StatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	list, err := f.svc.List(ctx, f.teacher)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, list[0].Status)
	assert.Equal(t, 1, f.rec.statusChanges["Confirmed"])
	assert.Equal(t, 0, f.rec.statusChanges["Rejected"])
}

func TestAppointmentService_UpdateStatus_ConcurrentDecisions(t *testing.T) {
	f := newAppointmentFixture(t)
	a := f.book(t, f.student, "t1")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for _, status := range []model.AppointmentStatus{model.StatusConfirmed, model.StatusRejected, model.StatusConfirmed, model.StatusRejected} {
		wg.Add(1)
		go func(status model.AppointmentStatus) {
			defer wg.Done()
			if _, err := f.svc.UpdateStatus(context.Background(), f.teacher, a.ID, status); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		}(status)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

func TestAppointmentService_Delete(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	a := f.book(t, f.student, "t1")

	assert.ErrorIs(t, f.svc.Delete(ctx, f.teacher, a.ID), ErrForbidden)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.student2, a.ID), ErrNotFoundOrUnauthorized)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.student, "missing"), ErrNotFoundOrUnauthorized)

	require.NoError(t, f.svc.Delete(ctx, f.student, a.ID))
	list, err := f.svc.List(ctx, f.student)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 1, f.rec.deleted)

	// already gone
	assert.ErrorIs(t, f.svc.Delete(ctx, f.student, a.ID), ErrNotFoundOrUnauthorized)
}

func TestAppointmentService_BookConfirmDeleteScenario(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	a := f.book(t, f.student, f.teacher.UserID)
	require.Equal(t, model.StatusPending, a.Status)

	for _, who := range []model.Identity{f.student, f.teacher} {
		list, err := f.svc.List(ctx, who)
		require.NoError(t, err)
		assert.Equal(t, []string{a.ID}, ids(list))
	}

	_, err := f.svc.UpdateStatus(ctx, f.teacher, a.ID, model.StatusConfirmed)
	require.NoError(t, err)
	for _, who := range []model.Identity{f.student, f.teacher} {
		list, err := f.svc.List(ctx, who)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, model.StatusConfirmed, list[0].Status)
	}

	require.NoError(t, f.svc.Delete(ctx, f.student, a.ID))
	for _, who := range []model.Identity{f.student, f.teacher} {
		list, err := f.svc.List(ctx, who)
		require.NoError(t, err)
		assert.Empty(t, list)
	}
}
