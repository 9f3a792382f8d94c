package projects

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/internal/events"
)

// in-memory Store with the same conditional-update semantics as Postgres
type fakeStore struct {
	mu       sync.Mutex
	projects map[string]*Project
	tasks    []TaskSummary

	// when set, FindByID blocks until this many reads are in flight
	readBarrier *sync.WaitGroup
	reads       atomic.Int32
	barrierSize int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{projects: make(map[string]*Project)}
}

func (f *fakeStore) Create(_ context.Context, userID, name, description string) (*Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	p := &Project{ID: uuid.NewString(), UserID: userID, Name: name, Description: description, Status: StatusNew, CreatedAt: now, UpdatedAt: now}
	f.projects[p.ID] = p

	c := *p
	return &c, nil
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*Project, error) {
	if f.readBarrier != nil && f.reads.Add(1) <= f.barrierSize {
		f.readBarrier.Done()
		f.readBarrier.Wait()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.projects[id]
	if !ok {
		return nil, apierrors.ErrNotFound
	}

	c := *p
	return &c, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID string) ([]Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []Project{}
	for _, p := range f.projects {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}

	return out, nil
}

func (f *fakeStore) ListTaskSummaries(context.Context, string) ([]TaskSummary, error) {
	return f.tasks, nil
}

func (f *fakeStore) UpdateIfStatus(_ context.Context, id, userID string, expected Status, name, description string, next Status) (*Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.projects[id]
	if !ok || p.UserID != userID || p.Status != expected {
		return nil, ErrStale
	}

	p.Name, p.Description, p.Status, p.UpdatedAt = name, description, next, time.Now()

	c := *p
	return &c, nil
}

func (f *fakeStore) Delete(_ context.Context, id, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.projects[id]
	if !ok || p.UserID != userID {
		return 0, nil
	}

	delete(f.projects, id)
	return 1, nil
}

func (f *fakeStore) setStatus(id string, s Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects[id].Status = s
}

func strPtr(s string) *string { return &s }

const (
	owner    = "11111111-1111-1111-1111-111111111111"
	stranger = "22222222-2222-2222-2222-222222222222"
)

func TestCreate_AlwaysStartsNew(t *testing.T) {
	rec := &events.Recorder{}
	svc := NewService(newFakeStore(), rec)

	p, err := svc.Create(context.Background(), owner, CreateInput{Name: "  Projeto de Integração  "})
	require.NoError(t, err)

	assert.Equal(t, "Projeto de Integração", p.Name)
	assert.Equal(t, StatusNew, p.Status)
	assert.Equal(t, owner, p.UserID)
	assert.Equal(t, []string{events.ProjectCreated}, rec.Types())
}

func TestCreate_RequiresName(t *testing.T) {
	svc := NewService(newFakeStore(), nil)

	_, err := svc.Create(context.Background(), owner, CreateInput{Name: "   "})
	assert.True(t, apierrors.IsValidation(err))
}

func TestIntegrationScenario(t *testing.T) {
	rec := &events.Recorder{}
	svc := NewService(newFakeStore(), rec)
	ctx := context.Background()

	p, err := svc.Create(ctx, owner, CreateInput{Name: "Projeto de Integração"})
	require.NoError(t, err)

	p, err = svc.Update(ctx, owner, p.ID, UpdateInput{Status: strPtr("in_progress")})
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, p.Status)

	_, err = svc.Update(ctx, owner, p.ID, UpdateInput{Status: strPtr("new")})
	assert.True(t, apierrors.IsTransition(err))

	got, err := svc.Get(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status, "failed transition must leave status unchanged")

	p, err = svc.Update(ctx, owner, p.ID, UpdateInput{Status: strPtr("completed")})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, p.Status)

	_, err = svc.Update(ctx, owner, p.ID, UpdateInput{Status: strPtr("cancelled")})
	var terr *apierrors.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "completed", terr.From)
	assert.Equal(t, "cancelled", terr.To)

	assert.Equal(t, []string{
		events.ProjectCreated,
		events.ProjectUpdated, events.ProjectTransitioned,
		events.ProjectUpdated, events.ProjectTransitioned,
	}, rec.Types())
}

func TestUpdate_SameStatusAlwaysSucceeds(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	for _, s := range allStatuses {
		p, err := svc.Create(ctx, owner, CreateInput{Name: "p"})
		require.NoError(t, err)
		store.setStatus(p.ID, s)

		updated, err := svc.Update(ctx, owner, p.ID, UpdateInput{Status: strPtr(string(s))})
		require.NoError(t, err, "status %s", s)
		assert.Equal(t, s, updated.Status)
	}
}

func TestUpdate_UnknownStatus(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, owner, CreateInput{Name: "p"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, owner, p.ID, UpdateInput{Status: strPtr("archived")})
	assert.True(t, apierrors.IsValidation(err))
}

func TestUpdate_FieldsWithoutStatus(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, owner, CreateInput{Name: "p", Description: "old"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, p.ID, UpdateInput{Name: strPtr("Projeto Atualizado")})
	require.NoError(t, err)

	assert.Equal(t, "Projeto Atualizado", updated.Name)
	assert.Equal(t, "old", updated.Description)
	assert.Equal(t, StatusNew, updated.Status)

	_, err = svc.Update(ctx, owner, p.ID, UpdateInput{Name: strPtr(" ")})
	assert.True(t, apierrors.IsValidation(err))
}

func TestOwnershipMasking(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, owner, CreateInput{Name: "private"})
	require.NoError(t, err)

	missing := uuid.NewString()

	_, foreignErr := svc.Get(ctx, stranger, p.ID)
	_, missingErr := svc.Get(ctx, stranger, missing)
	assert.ErrorIs(t, foreignErr, apierrors.ErrNotFound)
	assert.Equal(t, missingErr, foreignErr)

	_, foreignErr = svc.Update(ctx, stranger, p.ID, UpdateInput{Status: strPtr("in_progress")})
	_, missingErr = svc.Update(ctx, stranger, missing, UpdateInput{Status: strPtr("in_progress")})
	assert.ErrorIs(t, foreignErr, apierrors.ErrNotFound)
	assert.Equal(t, missingErr, foreignErr)

	_, err = svc.Get(ctx, owner, "not-a-uuid")
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	n, err := svc.Delete(ctx, stranger, p.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := svc.Get(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusNew, got.Status, "foreign update must not change the project")
}

func TestDelete_Idempotent(t *testing.T) {
	rec := &events.Recorder{}
	svc := NewService(newFakeStore(), rec)
	ctx := context.Background()

	p, err := svc.Create(ctx, owner, CreateInput{Name: "p"})
	require.NoError(t, err)

	n, err := svc.Delete(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.Delete(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.Delete(ctx, owner, "garbage")
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, []string{events.ProjectCreated, events.ProjectDeleted}, rec.Types())
}

func TestListWithTasks(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, owner, CreateInput{Name: "a"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, owner, CreateInput{Name: "b"})
	require.NoError(t, err)

	store.tasks = []TaskSummary{
		{ID: "t1", ProjectID: a.ID, Title: "first"},
		{ID: "t2", ProjectID: a.ID, Title: "second"},
	}

	out, err := svc.ListWithTasks(ctx, owner)
	require.NoError(t, err)
	require.Len(t, out, 2)

	byID := map[string]ProjectWithTasks{}
	for _, p := range out {
		byID[p.ID] = p
	}

	assert.Len(t, byID[a.ID].Tasks, 2)
	assert.NotNil(t, byID[b.ID].Tasks)
	assert.Empty(t, byID[b.ID].Tasks)
}

func TestUpdate_ConcurrentTransitionsOneWins(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, owner, CreateInput{Name: "race"})
	require.NoError(t, err)
	store.setStatus(p.ID, StatusInProgress)

	// both updates read in_progress before either writes
	store.readBarrier = &sync.WaitGroup{}
	store.readBarrier.Add(2)
	store.barrierSize = 2

	targets := []string{"completed", "cancelled"}
	results := make([]error, len(targets))
	var wg sync.WaitGroup

	for i, target := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = svc.Update(ctx, owner, p.ID, UpdateInput{Status: strPtr(target)})
		}()
	}

	wg.Wait()

	var succeeded, conflicted int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, apierrors.ErrConflict):
			conflicted++
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)

	store.readBarrier = nil
	final, err := svc.Get(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Contains(t, []Status{StatusCompleted, StatusCancelled}, final.Status)
}
