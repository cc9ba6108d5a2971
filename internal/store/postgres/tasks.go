package postgres

import (
	"context"
	"errors"
	"fmt"

	"taskpulse/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TasksStore struct {
	pool *pgxpool.Pool
}

func NewTasksStore(pool *pgxpool.Pool) *TasksStore {
	return &TasksStore{pool: pool}
}

const taskColumns = `id, user_id, title, duration, energy, status, created_at`

func (s *TasksStore) ListTasks(ctx context.Context, ownerID string) ([]domain.Task, error) {
	const q = `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TasksStore) CreateTask(ctx context.Context, ownerID, title string, duration int, energy domain.Energy) (domain.Task, error) {
	const q = `
		INSERT INTO tasks (user_id, title, duration, energy, status)
		VALUES ($1, $2, $3, $4, 'PENDING')
		RETURNING ` + taskColumns + `
	`

	t, err := scanTask(s.pool.QueryRow(ctx, q, ownerID, title, duration, string(energy)))
	if err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// UpdateTaskStatus is an owner-scoped conditional write: the id of another
// owner's task matches zero rows and is indistinguishable from a missing id.
func (s *TasksStore) UpdateTaskStatus(ctx context.Context, ownerID string, taskID int64, status domain.TaskStatus) (domain.Task, error) {
	const q = `
		UPDATE tasks
		SET status = $3
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns + `
	`

	t, err := scanTask(s.pool.QueryRow(ctx, q, taskID, ownerID, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, domain.ErrNotFound
		}
		return domain.Task{}, fmt.Errorf("update task status: %w", err)
	}
	return t, nil
}

func (s *TasksStore) DeleteTask(ctx context.Context, ownerID string, taskID int64) error {
	const q = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	tag, err := s.pool.Exec(ctx, q, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var (
		t         domain.Task
		ownerUUID pgtype.UUID
	)
	err := row.Scan(&t.ID, &ownerUUID, &t.Title, &t.Duration, &t.Energy, &t.Status, &t.CreatedAt)
	if err != nil {
		return domain.Task{}, err
	}
	t.OwnerID = uuidOrEmpty(ownerUUID)
	return t, nil
}
