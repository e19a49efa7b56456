package models

import "time"

// Comment is append-only; comments are never edited or deleted.
type Comment struct {
	ID        int64
	TaskID    int64
	AuthorID  string
	Content   string
	CreatedAt time.Time
}
