package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

// CommentWithAuthor carries the author's username alongside the
// comment, resolved by an explicit join rather than lazy traversal.
type CommentWithAuthor struct {
	Comment        models.Comment
	AuthorUsername string
}

type CommentRepository struct {
	db      *pgxpool.Pool
	builder squirrel.StatementBuilderType
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{
		db:      db,
		builder: newBuilder(),
	}
}

func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	query, args, err := r.builder.
		Insert("comments").
		Columns("task_id", "author_id", "content", "created_at").
		Values(c.TaskID, c.AuthorID, c.Content, c.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, query, args...).Scan(&c.ID)
}

func (r *CommentRepository) ListByTask(ctx context.Context, taskID int64) ([]CommentWithAuthor, error) {
	query, args, err := r.builder.
		Select("c.id", "c.task_id", "c.author_id", "c.content", "c.created_at", "u.username").
		From("comments c").
		Join("users u ON u.id = c.author_id").
		Where(squirrel.Eq{"c.task_id": taskID}).
		OrderBy("c.created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []CommentWithAuthor
	for rows.Next() {
		var c CommentWithAuthor
		if err := rows.Scan(
			&c.Comment.ID, &c.Comment.TaskID, &c.Comment.AuthorID,
			&c.Comment.Content, &c.Comment.CreatedAt, &c.AuthorUsername,
		); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
