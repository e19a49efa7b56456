package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type timelineEntryResponse struct {
	TaskID      int64     `json:"task_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Status      string    `json:"status"`
}

func (h *handlerImpl) HandleGetTimeline(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	entries, err := h.reports.Timeline(c, user)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to build timeline")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	responses := make([]timelineEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, timelineEntryResponse{
			TaskID:      e.TaskID,
			Title:       e.Title,
			Description: e.Description,
			Start:       e.Start,
			End:         e.End,
			Status:      e.Status,
		})
	}
	c.JSON(http.StatusOK, responses)
}

type summaryResponse struct {
	Total           int            `json:"total"`
	StatusCounts    map[string]int `json:"status_counts"`
	CompletedCount  int            `json:"completed_count"`
	CompletionRate  float64        `json:"completion_rate"`
	OverdueCount    int            `json:"overdue_count"`
	OnTimeCompleted int            `json:"on_time_completed"`
	OnTimeRate      float64        `json:"on_time_rate"`
}

func (h *handlerImpl) HandleGetSummary(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	summary, err := h.reports.Summary(c, user)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to compute summary")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, summaryResponse{
		Total:           summary.Total,
		StatusCounts:    summary.StatusCounts,
		CompletedCount:  summary.CompletedCount,
		CompletionRate:  summary.CompletionRate,
		OverdueCount:    summary.OverdueCount,
		OnTimeCompleted: summary.OnTimeCompleted,
		OnTimeRate:      summary.OnTimeRate,
	})
}

func (h *handlerImpl) HandleGetUpcoming(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			abort(c, newBadRequestError("invalid days"))
			return
		}
		days = parsed
	}

	tasks, err := h.reports.UpcomingDeadlines(c, user, days)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list upcoming deadlines")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	responses := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, newTaskResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *handlerImpl) HandleNotifyOverdue(c *gin.Context) {
	count, err := h.reports.NotifyOverdue(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to notify overdue tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"notified": count})
}
