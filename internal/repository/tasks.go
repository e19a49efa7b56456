package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

const (
	SortByDeadline = "deadline"
	SortByStatus   = "status"
	SortByTitle    = "title"
)

// TaskFilter narrows and orders a task listing. Filtering applies
// before sorting. Empty fields mean "all" and "deadline" respectively.
type TaskFilter struct {
	AssigneeID   string
	Status       string
	SortBy       string
	DeadlineFrom time.Time
	DeadlineTo   time.Time
}

// OverdueTask pairs a task with its assignee's address so the overdue
// sweep can notify without a second lookup.
type OverdueTask struct {
	Task             models.Task
	AssigneeUsername string
	AssigneeEmail    string
}

type TaskRepository struct {
	db      *pgxpool.Pool
	builder squirrel.StatementBuilderType
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		db:      db,
		builder: newBuilder(),
	}
}

func (r *TaskRepository) Create(ctx context.Context, t *models.Task) error {
	query, args, err := r.builder.
		Insert("tasks").
		Columns("title", "description", "deadline", "status", "created_at", "assignee_id").
		Values(t.Title, t.Description, t.Deadline, t.Status, t.CreatedAt, t.AssigneeID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, query, args...).Scan(&t.ID)
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	query, args, err := r.builder.
		Select("id", "title", "description", "deadline", "status", "created_at", "assignee_id").
		From("tasks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var t models.Task
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.Title, &t.Description, &t.Deadline,
		&t.Status, &t.CreatedAt, &t.AssigneeID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	q := r.builder.
		Select("id", "title", "description", "deadline", "status", "created_at", "assignee_id").
		From("tasks")

	if filter.AssigneeID != "" {
		q = q.Where(squirrel.Eq{"assignee_id": filter.AssigneeID})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if !filter.DeadlineFrom.IsZero() {
		q = q.Where(squirrel.GtOrEq{"deadline": filter.DeadlineFrom})
	}
	if !filter.DeadlineTo.IsZero() {
		q = q.Where(squirrel.LtOrEq{"deadline": filter.DeadlineTo})
	}

	switch filter.SortBy {
	case SortByStatus:
		q = q.OrderBy("status ASC")
	case SortByTitle:
		q = q.OrderBy("title ASC")
	default:
		q = q.OrderBy("deadline ASC")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Deadline,
			&t.Status, &t.CreatedAt, &t.AssigneeID,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id int64, status string) (*models.Task, error) {
	query, args, err := r.builder.
		Update("tasks").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, title, description, deadline, status, created_at, assignee_id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var t models.Task
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.Title, &t.Description, &t.Deadline,
		&t.Status, &t.CreatedAt, &t.AssigneeID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListOverdue returns tasks past the given instant that are not
// completed, joined with their assignees.
func (r *TaskRepository) ListOverdue(ctx context.Context, now time.Time) ([]OverdueTask, error) {
	query, args, err := r.builder.
		Select(
			"t.id", "t.title", "t.description", "t.deadline",
			"t.status", "t.created_at", "t.assignee_id",
			"u.username", "u.email",
		).
		From("tasks t").
		Join("users u ON u.id = t.assignee_id").
		Where(squirrel.Lt{"t.deadline": now}).
		Where(squirrel.NotEq{"t.status": models.StatusCompleted}).
		OrderBy("t.deadline ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overdue []OverdueTask
	for rows.Next() {
		var o OverdueTask
		if err := rows.Scan(
			&o.Task.ID, &o.Task.Title, &o.Task.Description, &o.Task.Deadline,
			&o.Task.Status, &o.Task.CreatedAt, &o.Task.AssigneeID,
			&o.AssigneeUsername, &o.AssigneeEmail,
		); err != nil {
			return nil, err
		}
		overdue = append(overdue, o)
	}
	return overdue, rows.Err()
}
