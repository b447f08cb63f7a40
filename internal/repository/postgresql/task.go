package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/task"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type taskRepositoryImpl struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.TaskRepository {
	return &taskRepositoryImpl{db: db}
}

const taskColumns = `t.id, t.title, t.description, t.assignee_id, t.status, t.payment_amount, t.deadline,
	t.created_by, t.created_at, t.updated_at`

func scanTask(row pgx.Row, extra ...any) (task.Task, error) {
	var t task.Task
	dest := []any{
		&t.ID,
		&t.Title,
		&t.Description,
		&t.AssigneeID,
		&t.Status,
		&t.PaymentAmount,
		&t.Deadline,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return task.Task{}, err
	}
	if t.Deadline != nil {
		d := clock.Date(*t.Deadline)
		t.Deadline = &d
	}
	return t, nil
}

func (r *taskRepositoryImpl) queryWithAssignee(ctx context.Context, where string, args ...any) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + taskColumns + `, p.full_name
		FROM tasks t
		INNER JOIN profiles p ON p.id = t.assignee_id
		WHERE ` + where + `
		ORDER BY t.created_at DESC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var name string
		t, err := scanTask(rows, &name)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.AssigneeName = &name
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// Create implements task.TaskRepository.
func (r *taskRepositoryImpl) Create(ctx context.Context, newTask task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tasks (title, description, assignee_id, status, payment_amount, deadline, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newTask.Title,
		newTask.Description,
		newTask.AssigneeID,
		newTask.Status,
		newTask.PaymentAmount,
		newTask.Deadline,
		newTask.CreatedBy,
	).Scan(&newTask.ID, &newTask.CreatedAt, &newTask.UpdatedAt)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return newTask, nil
}

// GetByID implements task.TaskRepository.
func (r *taskRepositoryImpl) GetByID(ctx context.Context, id string) (task.Task, error) {
	tasks, err := r.queryWithAssignee(ctx, "t.id = $1", id)
	if err != nil {
		return task.Task{}, err
	}
	if len(tasks) == 0 {
		return task.Task{}, task.ErrTaskNotFound
	}
	return tasks[0], nil
}

// List implements task.TaskRepository.
func (r *taskRepositoryImpl) List(ctx context.Context, filter task.TaskFilter) ([]task.Task, error) {
	whereClauses := []string{"1=1"}
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		whereClauses = append(whereClauses, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if filter.AssigneeID != "" {
		args = append(args, filter.AssigneeID)
		whereClauses = append(whereClauses, fmt.Sprintf("t.assignee_id = $%d", len(args)))
	}

	return r.queryWithAssignee(ctx, strings.Join(whereClauses, " AND "), args...)
}

// ListByAssignee implements task.TaskRepository.
func (r *taskRepositoryImpl) ListByAssignee(ctx context.Context, assigneeID string) ([]task.Task, error) {
	return r.queryWithAssignee(ctx, "t.assignee_id = $1", assigneeID)
}

// UpdateStatus implements task.TaskRepository.
func (r *taskRepositoryImpl) UpdateStatus(ctx context.Context, id string, from, to task.Status) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tasks t
		SET status = $3, updated_at = NOW()
		WHERE t.id = $1 AND t.status = $2
		RETURNING ` + taskColumns

	updated, err := scanTask(q.QueryRow(ctx, query, id, from, to))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The task is gone or someone else moved it first.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return task.Task{}, getErr
			}
			return task.Task{}, task.ErrInvalidTransition
		}
		return task.Task{}, fmt.Errorf("failed to update task status: %w", err)
	}
	return updated, nil
}
