package tasks

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/internal/events"
	"codeberg.org/lumina/server/lumina/projects"
)

const (
	owner    = "11111111-1111-1111-1111-111111111111"
	stranger = "22222222-2222-2222-2222-222222222222"
)

// in-memory Store
type fakeStore struct {
	mu    sync.Mutex
	tasks map[string]*Task
	now   time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: make(map[string]*Task), now: time.Now()}
}

func (f *fakeStore) Create(_ context.Context, userID string, in CreateInput) (*Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// strictly increasing creation times keep newest-first ordering stable
	f.now = f.now.Add(time.Millisecond)

	t := &Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		ProjectID:   in.ProjectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		Done:        in.Done,
		DueDate:     in.DueDate,
		CreatedAt:   f.now,
		UpdatedAt:   f.now,
	}
	f.tasks[t.ID] = t

	c := *t
	return &c, nil
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[id]
	if !ok {
		return nil, apierrors.ErrNotFound
	}

	c := *t
	return &c, nil
}

func (f *fakeStore) List(_ context.Context, userID string, filters Filters) ([]Task, error) {
	return f.filter(func(t *Task) bool {
		return t.UserID == userID &&
			(filters.ProjectID == "" || (t.ProjectID != nil && *t.ProjectID == filters.ProjectID)) &&
			(filters.Status == "" || t.Status == filters.Status) &&
			(filters.Priority == "" || t.Priority == filters.Priority)
	}), nil
}

func (f *fakeStore) ListByProject(_ context.Context, userID, projectID string, done *bool) ([]Task, error) {
	return f.filter(func(t *Task) bool {
		return t.UserID == userID &&
			t.ProjectID != nil && *t.ProjectID == projectID &&
			(done == nil || t.Done == *done)
	}), nil
}

func (f *fakeStore) filter(match func(*Task) bool) []Task {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []Task{}
	for _, t := range f.tasks {
		if match(t) {
			out = append(out, *t)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeStore) Update(_ context.Context, task *Task) (*Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[task.ID]
	if !ok || t.UserID != task.UserID {
		return nil, apierrors.ErrNotFound
	}

	c := *task
	f.tasks[task.ID] = &c

	out := c
	return &out, nil
}

func (f *fakeStore) SetProject(_ context.Context, taskID, userID string, projectID *string) (*Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, apierrors.ErrNotFound
	}

	t.ProjectID = projectID

	c := *t
	return &c, nil
}

func (f *fakeStore) Delete(_ context.Context, taskID, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[taskID]
	if !ok || t.UserID != userID {
		return 0, nil
	}

	delete(f.tasks, taskID)
	return 1, nil
}

func (f *fakeStore) CountCreatedSince(_ context.Context, userID string, since time.Time) (int64, error) {
	return int64(len(f.filter(func(t *Task) bool {
		return t.UserID == userID && !t.CreatedAt.Before(since)
	}))), nil
}

func (f *fakeStore) CompletionStats(_ context.Context, userID string) (*CompletionStats, error) {
	var stats CompletionStats
	for _, t := range f.filter(func(t *Task) bool { return t.UserID == userID }) {
		stats.Total++
		if t.Done {
			stats.Completed++
		}
	}

	return &stats, nil
}

// projects keyed by id, each with its owner
type fakeProjects map[string]string

func (f fakeProjects) Get(_ context.Context, userID, projectID string) (*projects.Project, error) {
	if f[projectID] != userID {
		return nil, apierrors.ErrNotFound
	}

	return &projects.Project{ID: projectID, UserID: userID, Status: projects.StatusNew}, nil
}

func newTestService() (*Service, *fakeStore, fakeProjects, *events.Recorder) {
	store := newFakeStore()
	owned := fakeProjects{}
	rec := &events.Recorder{}

	return NewService(store, owned, rec), store, owned, rec
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool     { return &b }

func TestCreate_Defaults(t *testing.T) {
	svc, _, _, rec := newTestService()

	task, err := svc.Create(context.Background(), owner, CreateInput{Title: "  Write report "})
	require.NoError(t, err)

	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, DefaultStatus, task.Status)
	assert.Equal(t, DefaultPriority, task.Priority)
	assert.Nil(t, task.ProjectID)
	assert.False(t, task.Done)
	assert.Equal(t, []string{events.TaskCreated}, rec.Types())
}

func TestCreate_RequiresTitle(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Create(context.Background(), owner, CreateInput{Title: " "})

	var verr *apierrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
}

func TestCreate_ProjectMustBeOwned(t *testing.T) {
	svc, _, owned, _ := newTestService()
	ctx := context.Background()

	mine, theirs := uuid.NewString(), uuid.NewString()
	owned[mine] = owner
	owned[theirs] = stranger

	task, err := svc.Create(ctx, owner, CreateInput{Title: "a", ProjectID: &mine})
	require.NoError(t, err)
	require.NotNil(t, task.ProjectID)
	assert.Equal(t, mine, *task.ProjectID)

	_, err = svc.Create(ctx, owner, CreateInput{Title: "b", ProjectID: &theirs})
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	task, err = svc.Create(ctx, owner, CreateInput{Title: "c", ProjectID: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, task.ProjectID)
}

func TestOwnershipMasking(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	task, err := svc.Create(ctx, owner, CreateInput{Title: "private"})
	require.NoError(t, err)

	missing := uuid.NewString()

	_, foreignErr := svc.Get(ctx, stranger, task.ID)
	_, missingErr := svc.Get(ctx, stranger, missing)
	assert.ErrorIs(t, foreignErr, apierrors.ErrNotFound)
	assert.Equal(t, missingErr, foreignErr)

	_, foreignErr = svc.Update(ctx, stranger, task.ID, UpdateInput{Done: boolPtr(true)})
	_, missingErr = svc.Update(ctx, stranger, missing, UpdateInput{Done: boolPtr(true)})
	assert.ErrorIs(t, foreignErr, apierrors.ErrNotFound)
	assert.Equal(t, missingErr, foreignErr)

	n, err := svc.Delete(ctx, stranger, task.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = svc.Get(ctx, owner, "42")
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	got, err := svc.Get(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.False(t, got.Done)
}

func TestUpdate_Patch(t *testing.T) {
	svc, _, owned, _ := newTestService()
	ctx := context.Background()

	projectID := uuid.NewString()
	owned[projectID] = owner

	task, err := svc.Create(ctx, owner, CreateInput{Title: "draft", Description: "keep me", ProjectID: &projectID})
	require.NoError(t, err)

	due := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	updated, err := svc.Update(ctx, owner, task.ID, UpdateInput{
		Title:    strPtr("final"),
		Status:   strPtr("done"),
		Priority: strPtr("high"),
		Done:     boolPtr(true),
		DueDate:  &due,
	})
	require.NoError(t, err)

	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	assert.Equal(t, "done", updated.Status)
	assert.Equal(t, "high", updated.Priority)
	assert.True(t, updated.Done)
	assert.Equal(t, due, *updated.DueDate)
	assert.Equal(t, projectID, *updated.ProjectID)

	updated, err = svc.Update(ctx, owner, task.ID, UpdateInput{ProjectID: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.ProjectID)

	_, err = svc.Update(ctx, owner, task.ID, UpdateInput{Title: strPtr("")})
	assert.True(t, apierrors.IsValidation(err))
}

func TestUpdate_ClearDueDate(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	due := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	task, err := svc.Create(ctx, owner, CreateInput{Title: "ship", DueDate: &due})
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)

	updated, err := svc.Update(ctx, owner, task.ID, UpdateInput{Done: boolPtr(true)})
	require.NoError(t, err)
	require.NotNil(t, updated.DueDate)

	updated, err = svc.Update(ctx, owner, task.ID, UpdateInput{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
	assert.True(t, updated.Done)
}

func TestAssignProject(t *testing.T) {
	svc, _, owned, rec := newTestService()
	ctx := context.Background()

	mine, theirs := uuid.NewString(), uuid.NewString()
	owned[mine] = owner
	owned[theirs] = stranger

	task, err := svc.Create(ctx, owner, CreateInput{Title: "loose"})
	require.NoError(t, err)

	_, err = svc.AssignProject(ctx, owner, task.ID, theirs)
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	_, err = svc.AssignProject(ctx, stranger, task.ID, theirs)
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	assigned, err := svc.AssignProject(ctx, owner, task.ID, mine)
	require.NoError(t, err)
	assert.Equal(t, mine, *assigned.ProjectID)

	assert.Equal(t, []string{events.TaskCreated, events.TaskAssigned}, rec.Types())
}

func TestListFiltersAndOrder(t *testing.T) {
	svc, _, owned, _ := newTestService()
	ctx := context.Background()

	projectID := uuid.NewString()
	owned[projectID] = owner

	first, err := svc.Create(ctx, owner, CreateInput{Title: "first", Priority: "high", ProjectID: &projectID})
	require.NoError(t, err)
	second, err := svc.Create(ctx, owner, CreateInput{Title: "second", Status: "doing"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, stranger, CreateInput{Title: "not mine"})
	require.NoError(t, err)

	all, err := svc.List(ctx, owner, Filters{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	byProject, err := svc.List(ctx, owner, Filters{ProjectID: projectID})
	require.NoError(t, err)
	require.Len(t, byProject, 1)
	assert.Equal(t, first.ID, byProject[0].ID)

	byStatus, err := svc.List(ctx, owner, Filters{Status: "doing"})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, second.ID, byStatus[0].ID)

	byPriority, err := svc.List(ctx, owner, Filters{Priority: "high"})
	require.NoError(t, err)
	assert.Len(t, byPriority, 1)

	none, err := svc.List(ctx, owner, Filters{ProjectID: "nope"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListByProject_DoneFilter(t *testing.T) {
	svc, _, owned, _ := newTestService()
	ctx := context.Background()

	projectID := uuid.NewString()
	owned[projectID] = owner

	_, err := svc.Create(ctx, owner, CreateInput{Title: "open", ProjectID: &projectID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, CreateInput{Title: "closed", Done: true, ProjectID: &projectID})
	require.NoError(t, err)

	all, err := svc.ListByProject(ctx, owner, projectID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	done, err := svc.ListByProject(ctx, owner, projectID, boolPtr(true))
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "closed", done[0].Title)

	foreign, err := svc.ListByProject(ctx, stranger, projectID, nil)
	require.NoError(t, err)
	assert.Empty(t, foreign)
}

func TestDelete_Idempotent(t *testing.T) {
	svc, _, _, rec := newTestService()
	ctx := context.Background()

	task, err := svc.Create(ctx, owner, CreateInput{Title: "t"})
	require.NoError(t, err)

	n, err := svc.Delete(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.Delete(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, []string{events.TaskCreated, events.TaskDeleted}, rec.Types())
}

func TestStats(t *testing.T) {
	svc, store, _, _ := newTestService()
	ctx := context.Background()

	old, err := svc.Create(ctx, owner, CreateInput{Title: "old", Done: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, CreateInput{Title: "new"})
	require.NoError(t, err)

	store.mu.Lock()
	store.tasks[old.ID].CreatedAt = time.Now().Add(-48 * time.Hour)
	store.mu.Unlock()

	recent, err := svc.CountRecent(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), recent)

	stats, err := svc.CompletionStats(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, &CompletionStats{Total: 2, Completed: 1}, stats)
}
