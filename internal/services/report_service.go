package services

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/mail"
	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/repository"
)

type reportServiceImpl struct {
	logger   zerolog.Logger
	tasks    TaskRepository
	notifier Notifier
}

func NewReportService(
	logger zerolog.Logger,
	tasks TaskRepository,
	notifier Notifier,
) ReportService {
	return &reportServiceImpl{
		logger:   logger,
		tasks:    tasks,
		notifier: notifier,
	}
}

func (s *reportServiceImpl) Timeline(ctx context.Context, user *models.User) ([]TimelineEntry, error) {
	tasks, err := s.listVisible(ctx, user)
	if err != nil {
		return nil, err
	}

	// Bars are grouped by status, earliest deadline first within a
	// group, matching the chart's legend order.
	entries := make([]TimelineEntry, 0, len(tasks))
	for _, status := range models.Statuses {
		for _, t := range tasks {
			if t.Status != status {
				continue
			}
			entries = append(entries, TimelineEntry{
				TaskID:      t.ID,
				Title:       t.Title,
				Description: t.Description,
				Start:       t.CreatedAt,
				End:         t.Deadline,
				Status:      t.Status,
			})
		}
	}

	return entries, nil
}

func (s *reportServiceImpl) Summary(ctx context.Context, user *models.User) (*Summary, error) {
	tasks, err := s.listVisible(ctx, user)
	if err != nil {
		return nil, err
	}

	summary := Summary{
		Total:        len(tasks),
		StatusCounts: make(map[string]int, len(models.Statuses)),
	}
	for _, status := range models.Statuses {
		summary.StatusCounts[status] = 0
	}

	now := time.Now()
	for _, t := range tasks {
		summary.StatusCounts[t.Status]++
		switch t.Status {
		case models.StatusCompleted:
			summary.CompletedCount++
			// Compares the deadline against the evaluation time,
			// not the completion time. Kept as observed pending
			// product confirmation.
			if !t.Deadline.Before(now) {
				summary.OnTimeCompleted++
			}
		case models.StatusOverdue:
			summary.OverdueCount++
		}
	}

	if summary.Total > 0 {
		summary.CompletionRate = roundRate(float64(summary.CompletedCount) / float64(summary.Total) * 100)
	}
	if summary.CompletedCount > 0 {
		summary.OnTimeRate = roundRate(float64(summary.OnTimeCompleted) / float64(summary.CompletedCount) * 100)
	}

	s.logger.Debug().
		Int("total", summary.Total).
		Int("completed", summary.CompletedCount).
		Float64("completion_rate", summary.CompletionRate).
		Msg("computed summary")
	return &summary, nil
}

func (s *reportServiceImpl) UpcomingDeadlines(ctx context.Context, user *models.User, days int) ([]models.Task, error) {
	if days <= 0 {
		days = 7
	}

	now := time.Now()
	filter := repository.TaskFilter{
		DeadlineFrom: now,
		DeadlineTo:   now.AddDate(0, 0, days),
	}
	if !user.IsAdmin {
		filter.AssigneeID = user.ID
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to select upcoming tasks")
		return nil, err
	}
	return tasks, nil
}

func (s *reportServiceImpl) NotifyOverdue(ctx context.Context) (int, error) {
	overdue, err := s.tasks.ListOverdue(ctx, time.Now())
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select overdue tasks")
		return 0, err
	}

	for i := range overdue {
		o := &overdue[i]
		s.notifier.Deliver(mail.NewOverdueMessage(&o.Task, o.AssigneeUsername, o.AssigneeEmail))
	}

	s.logger.Info().
		Int("count", len(overdue)).
		Msg("enqueued overdue notifications")
	return len(overdue), nil
}

func (s *reportServiceImpl) listVisible(ctx context.Context, user *models.User) ([]models.Task, error) {
	filter := repository.TaskFilter{}
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
	return tasks, nil
}

func roundRate(rate float64) float64 {
	return math.Round(rate*10) / 10
}
