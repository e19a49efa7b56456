package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/adanyl0v/go-task-tracker/internal/mail"
	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return repository.ErrAlreadyExists
		}
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetAssignable(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []models.User
	for _, u := range r.users {
		if !u.IsAdmin {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakeTaskRepo struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*models.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[int64]*models.Task)}
}

func (r *fakeTaskRepo) Create(_ context.Context, t *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.ID = r.nextID
	clone := *t
	r.tasks[t.ID] = &clone
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id int64) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var tasks []models.Task
	for _, t := range r.tasks {
		if filter.AssigneeID != "" && t.AssigneeID != filter.AssigneeID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if !filter.DeadlineFrom.IsZero() && t.Deadline.Before(filter.DeadlineFrom) {
			continue
		}
		if !filter.DeadlineTo.IsZero() && t.Deadline.After(filter.DeadlineTo) {
			continue
		}
		tasks = append(tasks, *t)
	}

	switch filter.SortBy {
	case repository.SortByStatus:
		sort.Slice(tasks, func(i, j int) bool { return tasks[i].Status < tasks[j].Status })
	case repository.SortByTitle:
		sort.Slice(tasks, func(i, j int) bool { return tasks[i].Title < tasks[j].Title })
	default:
		sort.Slice(tasks, func(i, j int) bool { return tasks[i].Deadline.Before(tasks[j].Deadline) })
	}
	return tasks, nil
}

func (r *fakeTaskRepo) UpdateStatus(_ context.Context, id int64, status string) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.Status = status
	clone := *t
	return &clone, nil
}

func (r *fakeTaskRepo) ListOverdue(ctx context.Context, now time.Time) ([]repository.OverdueTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var overdue []repository.OverdueTask
	for _, t := range r.tasks {
		if t.Deadline.Before(now) && t.Status != models.StatusCompleted {
			overdue = append(overdue, repository.OverdueTask{Task: *t})
		}
	}
	sort.Slice(overdue, func(i, j int) bool {
		return overdue[i].Task.Deadline.Before(overdue[j].Task.Deadline)
	})
	return overdue, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   int64
	comments map[int64][]models.Comment // keyed by task id
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[int64][]models.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, c *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	r.comments[c.TaskID] = append(r.comments[c.TaskID], *c)
	return nil
}

func (r *fakeCommentRepo) ListByTask(_ context.Context, taskID int64) ([]repository.CommentWithAuthor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.CommentWithAuthor
	for _, c := range r.comments[taskID] {
		out = append(out, repository.CommentWithAuthor{Comment: c})
	}
	return out, nil
}

func (r *fakeCommentRepo) countForTask(taskID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.comments[taskID])
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	r.sessions[s.ID] = &clone
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *fakeSessionRepo) GetByRefreshToken(_ context.Context, refreshToken, fingerprint string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.RefreshToken == refreshToken && s.Fingerprint == fingerprint {
			clone := *s
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSessionRepo) Update(_ context.Context, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sessions[s.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.RefreshToken = s.RefreshToken
	stored.ExpiresAt = s.ExpiresAt
	stored.UpdatedAt = s.UpdatedAt
	return nil
}

func (r *fakeSessionRepo) DeleteByUserID(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var affected int64
	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
			affected++
		}
	}
	return affected, nil
}

func (r *fakeSessionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []mail.Message
}

func (n *recordingNotifier) Deliver(msg mail.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

func (n *recordingNotifier) delivered() []mail.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]mail.Message(nil), n.messages...)
}
