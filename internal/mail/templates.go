package mail

import (
	"fmt"
	"time"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

const (
	appSignature   = "Task Timeline Tracker"
	deadlineLayout = "2006-01-02 15:04"
)

// Message is a rendered notification ready for submission.
type Message struct {
	To      string
	Subject string
	Body    string
}

func NewAssignmentMessage(task *models.Task, assignee *models.User) Message {
	body := fmt.Sprintf(`Dear %s,

A new task has been assigned to you:

Task: %s
Description: %s
Deadline: %s

Please log in to the %s to view more details and update the status.

Best regards,
%s`,
		assignee.Username,
		task.Title,
		task.Description,
		task.Deadline.Format(deadlineLayout),
		appSignature,
		appSignature,
	)

	return Message{
		To:      assignee.Email,
		Subject: fmt.Sprintf("New Task Assigned: %s", task.Title),
		Body:    body,
	}
}

func NewStatusUpdateMessage(task *models.Task, assignee *models.User, newStatus string) Message {
	body := fmt.Sprintf(`Dear %s,

The status of your task has been updated:

Task: %s
New Status: %s
Deadline: %s

Please log in to the %s to view more details.

Best regards,
%s`,
		assignee.Username,
		task.Title,
		newStatus,
		task.Deadline.Format(deadlineLayout),
		appSignature,
		appSignature,
	)

	return Message{
		To:      assignee.Email,
		Subject: fmt.Sprintf("Task Status Updated: %s", task.Title),
		Body:    body,
	}
}

func NewCompletionMessage(task *models.Task, assignee *models.User, completedAt time.Time) Message {
	body := fmt.Sprintf(`Dear %s,

Congratulations! You have completed the following task:

Task: %s
Completion Time: %s
Deadline: %s
`,
		assignee.Username,
		task.Title,
		completedAt.Format(deadlineLayout),
		task.Deadline.Format(deadlineLayout),
	)

	diff := completedAt.Sub(task.Deadline)
	if diff > 0 {
		body += fmt.Sprintf("\nTask was completed %s after the deadline.", FormatElapsed(diff))
	} else {
		body += fmt.Sprintf("\nTask was completed %s before the deadline!", FormatElapsed(diff))
	}
	body += fmt.Sprintf("\n\nBest regards,\n%s", appSignature)

	return Message{
		To:      assignee.Email,
		Subject: fmt.Sprintf("Task Completed: %s", task.Title),
		Body:    body,
	}
}

func NewOverdueMessage(task *models.Task, assigneeUsername, assigneeEmail string) Message {
	body := fmt.Sprintf(`Dear %s,

Your task %q is overdue. Please update its status or complete it as soon as possible.

Task Details:
- Description: %s
- Deadline: %s
- Current Status: %s

Best regards,
%s`,
		assigneeUsername,
		task.Title,
		task.Description,
		task.Deadline.Format(deadlineLayout),
		task.Status,
		appSignature,
	)

	return Message{
		To:      assigneeEmail,
		Subject: fmt.Sprintf("Task Overdue: %s", task.Title),
		Body:    body,
	}
}
