package domain

import "time"

// Author identifies who wrote a comment.
type Author struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Comment is a task comment. Replies are nested one level deep.
type Comment struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	TaskID    int       `json:"task_id"`
	ParentID  *int      `json:"parent_id,omitempty"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	Replies   []Comment `json:"replies"`
}

// IsTopLevel reports whether the comment has no parent.
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}
