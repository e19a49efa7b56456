package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/mail"
	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/repository"
)

type taskServiceImpl struct {
	logger   zerolog.Logger
	tasks    TaskRepository
	users    UserRepository
	comments CommentRepository
	notifier Notifier
}

func NewTaskService(
	logger zerolog.Logger,
	tasks TaskRepository,
	users UserRepository,
	comments CommentRepository,
	notifier Notifier,
) TaskService {
	return &taskServiceImpl{
		logger:   logger,
		tasks:    tasks,
		users:    users,
		comments: comments,
		notifier: notifier,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	if strings.TrimSpace(params.Title) == "" || strings.TrimSpace(params.Description) == "" {
		s.logger.Error().Msg("task title or description is empty")
		return nil, ErrEmptyField
	}

	assignee, err := s.users.GetByID(ctx, params.AssigneeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().
				Str("assignee_id", params.AssigneeID).
				Msg("assignee not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("assignee_id", params.AssigneeID).
			Msg("failed to select assignee")
		return nil, err
	}

	// Tasks are delegated work; admins create them, they don't
	// receive them.
	if assignee.IsAdmin {
		s.logger.Error().
			Str("assignee_id", assignee.ID).
			Msg("assignee is an admin")
		return nil, ErrAssigneeIsAdmin
	}

	task := models.Task{
		Title:       params.Title,
		Description: params.Description,
		Deadline:    params.Deadline,
		Status:      models.StatusNotStarted,
		CreatedAt:   time.Now(),
		AssigneeID:  assignee.ID,
	}

	err = s.tasks.Create(ctx, &task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("inserted task")

	s.notifier.Deliver(mail.NewAssignmentMessage(&task, assignee))

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("assignee_id", assignee.ID).
		Msg("created task")
	return &task, nil
}

func (s *taskServiceImpl) UpdateStatus(ctx context.Context, taskID int64, status string) (*models.Task, error) {
	if !models.IsValidStatus(status) {
		s.logger.Error().
			Str("status", status).
			Msg("unknown task status")
		return nil, ErrInvalidTaskStatus
	}

	previous, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().
				Int64("task_id", taskID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to select task")
		return nil, err
	}

	task, err := s.tasks.UpdateStatus(ctx, taskID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().
				Int64("task_id", taskID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to update task status")
		return nil, err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Str("status", task.Status).
		Msg("updated task status")

	switch {
	case status == models.StatusCompleted:
		s.notifyAssignee(ctx, task, func(assignee *models.User) mail.Message {
			return mail.NewCompletionMessage(task, assignee, time.Now())
		})
	case status != previous.Status:
		s.notifyAssignee(ctx, task, func(assignee *models.User) mail.Message {
			return mail.NewStatusUpdateMessage(task, assignee, status)
		})
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("from", previous.Status).
		Str("to", task.Status).
		Msg("updated task status")
	return task, nil
}

func (s *taskServiceImpl) AddComment(ctx context.Context, taskID int64, authorID, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		s.logger.Error().
			Int64("task_id", taskID).
			Msg("comment content is empty")
		return nil, ErrEmptyField
	}

	_, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().
				Int64("task_id", taskID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to select task")
		return nil, err
	}

	comment := models.Comment{
		TaskID:    taskID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	err = s.comments.Create(ctx, &comment)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to insert comment")
		return nil, err
	}

	s.logger.Info().
		Int64("comment_id", comment.ID).
		Int64("task_id", taskID).
		Str("author_id", authorID).
		Msg("added comment")
	return &comment, nil
}

func (s *taskServiceImpl) ListForUser(ctx context.Context, user *models.User, params ListTasksParams) ([]models.Task, error) {
	if params.Status != "" && !models.IsValidStatus(params.Status) {
		s.logger.Error().
			Str("status", params.Status).
			Msg("unknown task status filter")
		return nil, ErrInvalidTaskStatus
	}

	filter := repository.TaskFilter{
		Status: params.Status,
		SortBy: params.SortBy,
	}
	if !user.IsAdmin {
		filter.AssigneeID = user.ID
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to select tasks")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", user.ID).
		Msg("selected tasks")

	return tasks, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, taskID int64) (*TaskDetail, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().
				Int64("task_id", taskID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to select task")
		return nil, err
	}

	detail := TaskDetail{Task: *task}

	assignee, err := s.users.GetByID(ctx, task.AssigneeID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("assignee_id", task.AssigneeID).
			Msg("failed to select assignee")
		return nil, err
	}
	detail.AssigneeUsername = assignee.Username

	comments, err := s.comments.ListByTask(ctx, taskID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to select comments")
		return nil, err
	}
	detail.Comments = comments

	return &detail, nil
}

func (s *taskServiceImpl) ListAssignableUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.GetAssignable(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select assignable users")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(users)).
		Msg("selected assignable users")

	return users, nil
}

func (s *taskServiceImpl) notifyAssignee(ctx context.Context, task *models.Task, build func(*models.User) mail.Message) {
	assignee, err := s.users.GetByID(ctx, task.AssigneeID)
	if err != nil {
		// A failed notification never fails the mutation.
		s.logger.Error().
			Err(err).
			Str("assignee_id", task.AssigneeID).
			Msg("failed to resolve assignee for notification")
		return
	}
	s.notifier.Deliver(build(assignee))
}
