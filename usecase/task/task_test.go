package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rew4n/smart-task-resource-manager/domain"
)

// fakeTaskRepo is an in-memory TaskRepository with the same owner-scoping
// and ordering behavior as the Postgres implementation.
type fakeTaskRepo struct {
	nextID   int64
	tasks    map[int64]domain.Task
	writeErr error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[int64]domain.Task)}
}

func (r *fakeTaskRepo) List(_ context.Context, owner string) ([]domain.Task, error) {
	var tasks []domain.Task
	for _, task := range r.tasks {
		if task.Owner == owner {
			tasks = append(tasks, task)
		}
	}
	domain.SortTasks(tasks)
	return tasks, nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, owner string, id int64) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok || task.Owner != owner {
		return nil, domain.ErrTaskNotFound
	}
	found := task
	return &found, nil
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if r.writeErr != nil {
		return nil, r.writeErr
	}
	r.nextID++
	task.ID = r.nextID
	r.tasks[task.ID] = *task
	return task, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	stored, ok := r.tasks[task.ID]
	if !ok || stored.Owner != task.Owner {
		return domain.ErrTaskNotFound
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *fakeTaskRepo) Toggle(_ context.Context, owner string, id int64) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok || task.Owner != owner {
		return nil, domain.ErrTaskNotFound
	}
	task.Done = !task.Done
	r.tasks[id] = task
	return &task, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, owner string, id int64) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	task, ok := r.tasks[id]
	if !ok || task.Owner != owner {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type fakeBuffer struct {
	operations []string
}

func (b *fakeBuffer) BufferTask(_ context.Context, operation string, _ *domain.Task) error {
	b.operations = append(b.operations, operation)
	return nil
}

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds with completion flag unset", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil, nil)

		task, err := uc.Create(ctx, "admin", Input{Title: "Buy milk"})
		require.NoError(t, err)
		assert.Equal(t, "Buy milk", task.Title)
		assert.False(t, task.Done)
		assert.NotZero(t, task.ID)
		assert.Equal(t, "admin", task.Owner)
	})

	t.Run("trims the title", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil, nil)

		task, err := uc.Create(ctx, "admin", Input{Title: "  padded  "})
		require.NoError(t, err)
		assert.Equal(t, "padded", task.Title)
	})

	t.Run("empty title persists nothing", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil, nil)

		for _, title := range []string{"", "   ", "\t\n"} {
			_, err := uc.Create(ctx, "admin", Input{Title: title})
			assert.ErrorIs(t, err, domain.ErrEmptyTitle)
		}
		assert.Empty(t, repo.tasks)
	})

	t.Run("malformed due date persists nothing", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil, nil)

		_, err := uc.Create(ctx, "admin", Input{Title: "x", DueDate: "not-a-date"})
		assert.ErrorIs(t, err, domain.ErrInvalidDueDate)
		assert.Empty(t, repo.tasks)
	})

	t.Run("blank due date means unset", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil, nil)

		task, err := uc.Create(ctx, "admin", Input{Title: "x", DueDate: "  "})
		require.NoError(t, err)
		assert.Nil(t, task.DueDate)
	})
}

func TestListOrdering(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil)

	// Creation order: none, 2024-01-10, 2024-01-05.
	for _, input := range []Input{
		{Title: "undated"},
		{Title: "mid", DueDate: "2024-01-10"},
		{Title: "first", DueDate: "2024-01-05"},
	} {
		_, err := uc.Create(ctx, "admin", input)
		require.NoError(t, err)
	}

	tasks, err := uc.List(ctx, "admin")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "first", tasks[0].Title)
	assert.Equal(t, "mid", tasks[1].Title)
	assert.Equal(t, "undated", tasks[2].Title)
}

func TestToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil)

	created, err := uc.Create(ctx, "admin", Input{Title: "flip me"})
	require.NoError(t, err)

	toggled, err := uc.Toggle(ctx, "admin", created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Done)

	restored, err := uc.Toggle(ctx, "admin", created.ID)
	require.NoError(t, err)
	assert.False(t, restored.Done)
}

func TestOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil)

	created, err := uc.Create(ctx, "alice", Input{Title: "private"})
	require.NoError(t, err)

	// Every cross-owner access reports not found, never forbidden.
	_, err = uc.Get(ctx, "bob", created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = uc.Toggle(ctx, "bob", created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = uc.Update(ctx, "bob", created.ID, Input{Title: "stolen"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	err = uc.Delete(ctx, "bob", created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	tasks, err := uc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// The owner still sees the untouched task.
	task, err := uc.Get(ctx, "alice", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", task.Title)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces all writable fields", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil, nil)

		created, err := uc.Create(ctx, "admin", Input{Title: "before", Description: "old", DueDate: "2024-01-05"})
		require.NoError(t, err)

		updated, err := uc.Update(ctx, "admin", created.ID, Input{Title: "after"})
		require.NoError(t, err)
		assert.Equal(t, "after", updated.Title)
		assert.Empty(t, updated.Description)
		assert.Nil(t, updated.DueDate)
	})

	t.Run("empty title leaves the stored task unchanged", func(t *testing.T) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil, nil)

		created, err := uc.Create(ctx, "admin", Input{Title: "keep me"})
		require.NoError(t, err)

		_, err = uc.Update(ctx, "admin", created.ID, Input{Title: "   "})
		assert.ErrorIs(t, err, domain.ErrEmptyTitle)

		stored, err := uc.Get(ctx, "admin", created.ID)
		require.NoError(t, err)
		assert.Equal(t, "keep me", stored.Title)
	})
}

func TestApplyPatch(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*UseCase, int64) {
		repo := newFakeTaskRepo()
		uc := New(repo, nil, nil)
		created, err := uc.Create(ctx, "admin", Input{Title: "original", Description: "desc", DueDate: "2024-06-01"})
		require.NoError(t, err)
		return uc, created.ID
	}

	t.Run("applies only present fields", func(t *testing.T) {
		uc, id := setup(t)

		task, err := uc.ApplyPatch(ctx, "admin", id, Patch{Done: boolptr(true)})
		require.NoError(t, err)
		assert.True(t, task.Done)
		assert.Equal(t, "original", task.Title)
		assert.Equal(t, "desc", task.Description)
		require.NotNil(t, task.DueDate)
	})

	t.Run("present blank due date clears it", func(t *testing.T) {
		uc, id := setup(t)

		task, err := uc.ApplyPatch(ctx, "admin", id, Patch{DueDate: strptr("")})
		require.NoError(t, err)
		assert.Nil(t, task.DueDate)
	})

	t.Run("present empty title is rejected", func(t *testing.T) {
		uc, id := setup(t)

		_, err := uc.ApplyPatch(ctx, "admin", id, Patch{Title: strptr("  ")})
		assert.ErrorIs(t, err, domain.ErrEmptyTitle)

		stored, err := uc.Get(ctx, "admin", id)
		require.NoError(t, err)
		assert.Equal(t, "original", stored.Title)
	})

	t.Run("malformed due date is rejected", func(t *testing.T) {
		uc, id := setup(t)

		_, err := uc.ApplyPatch(ctx, "admin", id, Patch{DueDate: strptr("tomorrow")})
		assert.ErrorIs(t, err, domain.ErrInvalidDueDate)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil)

	created, err := uc.Create(ctx, "admin", Input{Title: "gone soon"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, "admin", created.ID))

	// A repeat delete reports not found rather than succeeding silently.
	err = uc.Delete(ctx, "admin", created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = uc.Get(ctx, "admin", created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestWriteBehindBuffering(t *testing.T) {
	ctx := context.Background()

	t.Run("infrastructure failure on update is buffered", func(t *testing.T) {
		repo := newFakeTaskRepo()
		buf := &fakeBuffer{}
		uc := New(repo, buf, nil)

		created, err := uc.Create(ctx, "admin", Input{Title: "x"})
		require.NoError(t, err)

		repo.writeErr = assert.AnError
		_, err = uc.Update(ctx, "admin", created.ID, Input{Title: "y"})
		require.NoError(t, err)
		assert.Equal(t, []string{"update"}, buf.operations)
	})

	t.Run("not found is never buffered", func(t *testing.T) {
		repo := newFakeTaskRepo()
		buf := &fakeBuffer{}
		uc := New(repo, buf, nil)

		err := uc.Delete(ctx, "admin", 42)
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
		assert.Empty(t, buf.operations)
	})
}

func TestCreateSetsCreationTime(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil)

	before := time.Now()
	task, err := uc.Create(ctx, "admin", Input{Title: "timestamped"})
	require.NoError(t, err)
	assert.False(t, task.CreatedAt.Before(before))
	assert.False(t, task.CreatedAt.After(time.Now()))
}
