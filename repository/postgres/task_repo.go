package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rew4n/smart-task-resource-manager/domain"
	"github.com/rew4n/smart-task-resource-manager/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) List(ctx context.Context, owner string) ([]domain.Task, error) {
	const query = `
	SELECT id, owner, title, description, done, due_date, created_at
	FROM tasks
	WHERE owner = $1
	ORDER BY due_date ASC NULLS LAST, created_at DESC, id DESC
	`
	rows, err := r.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) GetByID(ctx context.Context, owner string, id int64) (*domain.Task, error) {
	const query = `
	SELECT id, owner, title, description, done, due_date, created_at
	FROM tasks
	WHERE id = $1 AND owner = $2
	`
	row := r.pool.QueryRow(ctx, query, id, owner)
	return scanTask(row)
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO tasks (owner, title, description, done, due_date, created_at)
	VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))
	RETURNING id, created_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.Owner,
		task.Title,
		task.Description,
		task.Done,
		nullDate(task.DueDate),
		nullTime(task.CreatedAt),
	).Scan(&task.ID, &task.CreatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $3,
		description = $4,
		done = $5,
		due_date = $6
	WHERE id = $1 AND owner = $2
	RETURNING id
	`

	var id int64
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Owner,
		task.Title,
		task.Description,
		task.Done,
		nullDate(task.DueDate),
	).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}

	return nil
}

func (r *taskRepository) Toggle(ctx context.Context, owner string, id int64) (*domain.Task, error) {
	const query = `
	UPDATE tasks
	SET done = NOT done
	WHERE id = $1 AND owner = $2
	RETURNING id, owner, title, description, done, due_date, created_at
	`
	row := r.pool.QueryRow(ctx, query, id, owner)
	return scanTask(row)
}

func (r *taskRepository) Delete(ctx context.Context, owner string, id int64) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND owner = $2`
	tag, err := r.pool.Exec(ctx, query, id, owner)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var due *time.Time

	if err := row.Scan(
		&task.ID,
		&task.Owner,
		&task.Title,
		&task.Description,
		&task.Done,
		&due,
		&task.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.DueDate = due
	return &task, nil
}
