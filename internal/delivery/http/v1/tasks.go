package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/repository"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

type taskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	AssigneeID  string    `json:"assignee_id"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Deadline:    task.Deadline,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		AssigneeID:  task.AssigneeID,
	}
}

type commentResponse struct {
	ID             int64     `json:"id"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username,omitempty"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

type taskDetailResponse struct {
	taskResponse
	AssigneeUsername string            `json:"assignee_username"`
	Comments         []commentResponse `json:"comments"`
}

type createTaskRequest struct {
	Title       string    `json:"title" binding:"required,max=100"`
	Description string    `json:"description" binding:"required,max=500"`
	Deadline    time.Time `json:"deadline" binding:"required"`
	AssigneeID  string    `json:"assignee_id" binding:"required,uuid"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		switch {
		case errors.Is(err, services.ErrEmptyField):
			abort(c, newBadRequestError(services.ErrEmptyField.Error()))
		case errors.Is(err, services.ErrAssigneeIsAdmin):
			abort(c, newBadRequestError(services.ErrAssigneeIsAdmin.Error()))
		case errors.Is(err, services.ErrUserNotFound):
			abort(c, newNotFoundError(services.ErrUserNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	sortBy := c.Query("sort")
	switch sortBy {
	case "", repository.SortByDeadline, repository.SortByStatus, repository.SortByTitle:
	default:
		abort(c, newBadRequestError("unknown sort key"))
		return
	}

	tasks, err := h.tasks.ListForUser(c, user, services.ListTasksParams{
		Status: c.Query("status"),
		SortBy: sortBy,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		switch {
		case errors.Is(err, services.ErrInvalidTaskStatus):
			abort(c, newBadRequestError(services.ErrInvalidTaskStatus.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	responses := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, newTaskResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	taskID, err := parseTaskID(c)
	if err != nil {
		abort(c, newBadRequestError("invalid task id"))
		return
	}

	detail, err := h.tasks.GetTask(c, taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to get task")
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	resp := taskDetailResponse{
		taskResponse:     newTaskResponse(&detail.Task),
		AssigneeUsername: detail.AssigneeUsername,
		Comments:         make([]commentResponse, 0, len(detail.Comments)),
	}
	for _, comment := range detail.Comments {
		resp.Comments = append(resp.Comments, commentResponse{
			ID:             comment.Comment.ID,
			AuthorID:       comment.Comment.AuthorID,
			AuthorUsername: comment.AuthorUsername,
			Content:        comment.Comment.Content,
			CreatedAt:      comment.Comment.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

type setTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *handlerImpl) HandleSetTaskStatus(c *gin.Context) {
	taskID, err := parseTaskID(c)
	if err != nil {
		abort(c, newBadRequestError("invalid task id"))
		return
	}

	var req setTaskStatusRequest
	err = c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.UpdateStatus(c, taskID, req.Status)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to update task status")
		switch {
		case errors.Is(err, services.ErrInvalidTaskStatus):
			abort(c, newBadRequestError(services.ErrInvalidTaskStatus.Error()))
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

type addCommentRequest struct {
	Content string `json:"content" binding:"required,max=500"`
}

func (h *handlerImpl) HandleAddComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	taskID, err := parseTaskID(c)
	if err != nil {
		abort(c, newBadRequestError("invalid task id"))
		return
	}

	var req addCommentRequest
	err = c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	comment, err := h.tasks.AddComment(c, taskID, user.ID, req.Content)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to add comment")
		switch {
		case errors.Is(err, services.ErrEmptyField):
			abort(c, newBadRequestError(services.ErrEmptyField.Error()))
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusCreated, commentResponse{
		ID:        comment.ID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	})
}

type assignableUserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *handlerImpl) HandleGetAssignableUsers(c *gin.Context) {
	users, err := h.tasks.ListAssignableUsers(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list assignable users")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	responses := make([]assignableUserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, assignableUserResponse{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
		})
	}
	c.JSON(http.StatusOK, responses)
}

func parseTaskID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
