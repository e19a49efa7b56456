package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/go-task-tracker/internal/mail"
	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/repository"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrTaskNotFound         = errors.New("task not found")
	ErrInvalidTaskStatus    = errors.New("invalid task status")
	ErrEmptyField           = errors.New("required field is empty")
	ErrAssigneeIsAdmin      = errors.New("assignee must not be an admin")
)

// Notifier delivers a rendered notification without blocking the
// caller. Delivery is fire-and-forget; the outcome is never surfaced.
type Notifier interface {
	Deliver(msg mail.Message)
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetAssignable(ctx context.Context) ([]models.User, error)
}

type TaskRepository interface {
	Create(ctx context.Context, t *models.Task) error
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	List(ctx context.Context, filter repository.TaskFilter) ([]models.Task, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Task, error)
	ListOverdue(ctx context.Context, now time.Time) ([]repository.OverdueTask, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *models.Comment) error
	ListByTask(ctx context.Context, taskID int64) ([]repository.CommentWithAuthor, error)
}

type SessionRepository interface {
	Create(ctx context.Context, s *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	GetByRefreshToken(ctx context.Context, refreshToken, fingerprint string) (*models.Session, error)
	Update(ctx context.Context, s *models.Session) error
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
}

type AuthService interface {
	// Login authenticates the user by username and password.
	//
	// It deletes all sessions with the same user ID, creates
	// a new session and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// username doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the stored digest. Usernames
	// match exactly; there is no case folding.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register a user with the given username, email and password.
	//
	// It hashes the password (the plaintext is never stored),
	// generates a unique ID and creates a session with the given
	// fingerprint and a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists if the username or email
	// is already taken.
	Register(ctx context.Context, params RegisterParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

type TaskService interface {
	// CreateTask persists a task with status not_started and
	// enqueues an assignment notification to the assignee.
	//
	// It returns ErrEmptyField if the title or description is
	// blank, ErrUserNotFound if the assignee doesn't exist and
	// ErrAssigneeIsAdmin if the assignee has the admin flag.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// UpdateStatus writes the new status unconditionally; any
	// status may replace any other and the last write wins.
	//
	// Moving to completed enqueues a completion notification that
	// states how far before or after the deadline the task landed.
	// Any other change of status enqueues a status-update
	// notification. Re-writing the same non-completed status
	// performs the write but notifies nobody.
	UpdateStatus(ctx context.Context, taskID int64, status string) (*models.Task, error)

	// AddComment appends a comment to the task. Comments are never
	// edited or deleted.
	AddComment(ctx context.Context, taskID int64, authorID, content string) (*models.Comment, error)

	// ListForUser returns every task for admins and only the
	// user's own tasks otherwise, filtered and then sorted.
	ListForUser(ctx context.Context, user *models.User, params ListTasksParams) ([]models.Task, error)

	// GetTask resolves a task together with its assignee and
	// comments by explicit lookups.
	GetTask(ctx context.Context, taskID int64) (*TaskDetail, error)

	// ListAssignableUsers returns the non-admin users a new task
	// may be assigned to.
	ListAssignableUsers(ctx context.Context) ([]models.User, error)
}

type ReportService interface {
	// Timeline returns one bar per visible task spanning from its
	// creation to its deadline.
	Timeline(ctx context.Context, user *models.User) ([]TimelineEntry, error)

	// Summary computes the status distribution and the completion
	// metrics over the user's visible tasks.
	Summary(ctx context.Context, user *models.User) (*Summary, error)

	// UpcomingDeadlines returns the visible tasks whose deadline
	// falls within the next given number of days.
	UpcomingDeadlines(ctx context.Context, user *models.User, days int) ([]models.Task, error)

	// NotifyOverdue enqueues an overdue notification for every
	// task past its deadline that is not completed, without
	// mutating any task, and returns how many were enqueued.
	NotifyOverdue(ctx context.Context) (int, error)
}

type LoginParams struct {
	Username    string
	Password    string
	Fingerprint string
}

type RegisterParams struct {
	Username    string
	Password    string
	Email       string
	IsAdmin     bool
	Fingerprint string
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type CreateTaskParams struct {
	Title       string
	Description string
	Deadline    time.Time
	AssigneeID  string
}

type ListTasksParams struct {
	Status string // empty means all statuses
	SortBy string // repository.SortByDeadline, SortByStatus or SortByTitle
}

type TaskDetail struct {
	Task             models.Task
	AssigneeUsername string
	Comments         []repository.CommentWithAuthor
}

type TimelineEntry struct {
	TaskID      int64
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Status      string
}

type Summary struct {
	Total           int
	StatusCounts    map[string]int
	CompletionRate  float64
	OverdueCount    int
	OnTimeRate      float64
	CompletedCount  int
	OnTimeCompleted int
}
