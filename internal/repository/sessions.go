package repository

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

type SessionRepository struct {
	db      *pgxpool.Pool
	builder squirrel.StatementBuilderType
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db:      db,
		builder: newBuilder(),
	}
}

func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	query, args, err := r.builder.
		Insert("sessions").
		Columns("id", "user_id", "fingerprint", "refresh_token", "expires_at", "created_at", "updated_at").
		Values(s.ID, s.UserID, s.Fingerprint, s.RefreshToken, s.ExpiresAt, s.CreatedAt, s.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, query, args...)
	return err
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	query, args, err := r.builder.
		Select("id", "user_id", "fingerprint", "refresh_token", "expires_at", "created_at", "updated_at").
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var s models.Session
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.UserID, &s.Fingerprint, &s.RefreshToken,
		&s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) GetByRefreshToken(ctx context.Context, refreshToken, fingerprint string) (*models.Session, error) {
	query, args, err := r.builder.
		Select("id", "user_id", "fingerprint", "refresh_token", "expires_at", "created_at", "updated_at").
		From("sessions").
		Where(squirrel.Eq{
			"refresh_token": refreshToken,
			"fingerprint":   fingerprint,
		}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var s models.Session
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.UserID, &s.Fingerprint, &s.RefreshToken,
		&s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) Update(ctx context.Context, s *models.Session) error {
	query, args, err := r.builder.
		Update("sessions").
		Set("refresh_token", s.RefreshToken).
		Set("expires_at", s.ExpiresAt).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, query, args...)
	return err
}

func (r *SessionRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	query, args, err := r.builder.
		Delete("sessions").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
