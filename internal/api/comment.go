package api

import (
	"time"

	"github.com/mtlprog/momentum/internal/domain"
)

// commentResponse is the wire shape of a comment.
type commentResponse struct {
	ID             int               `json:"id"`
	Text           string            `json:"text"`
	TaskID         int               `json:"task_id"`
	ParentID       *int              `json:"parent_id"`
	AuthorNickname string            `json:"author_nickname"`
	AuthorAvatar   string            `json:"author_avatar"`
	CreatedAt      string            `json:"created_at"`
	SubComments    []commentResponse `json:"sub_comments"`
}

func (c commentResponse) toDomain() domain.Comment {
	out := domain.Comment{
		ID:       c.ID,
		Text:     c.Text,
		TaskID:   c.TaskID,
		ParentID: c.ParentID,
		Author: domain.Author{
			Name:   c.AuthorNickname,
			Avatar: c.AuthorAvatar,
		},
		CreatedAt: parseTimestamp(c.CreatedAt),
		Replies:   make([]domain.Comment, 0, len(c.SubComments)),
	}
	for _, sub := range c.SubComments {
		reply := sub.toDomain()
		reply.Replies = []domain.Comment{}
		out.Replies = append(out.Replies, reply)
	}
	return out
}

// parseTimestamp accepts RFC 3339 with or without a zone. Unparseable
// values become the zero time.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
