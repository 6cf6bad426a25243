package domain

import "time"

type Thread struct {
	Id                ThreadId   `json:"id"`
	Title             string     `json:"title"`
	Content           string     `json:"content"`
	AuthorId          Identity   `json:"authorId"`
	AuthorDisplayName string     `json:"authorDisplayName"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
	Category          Category   `json:"category"`
	Comments          []Comment  `json:"comments"`
	ViewCount         int64      `json:"viewCount"`
	LikeCount         int64      `json:"likeCount"`
	DislikeCount      int64      `json:"dislikeCount"`
}

// CommentIds returns the ordered ids of the thread's comments.
func (t *Thread) CommentIds() []CommentId {
	ids := make([]CommentId, len(t.Comments))
	for i, c := range t.Comments {
		ids[i] = c.Id
	}
	return ids
}

// CommentIndex returns the position of the comment or -1.
func (t *Thread) CommentIndex(id CommentId) int {
	for i := range t.Comments {
		if t.Comments[i].Id == id {
			return i
		}
	}
	return -1
}

type Comment struct {
	Id                CommentId  `json:"id"`
	ThreadId          ThreadId   `json:"threadId"`
	AuthorId          Identity   `json:"authorId"`
	AuthorDisplayName string     `json:"authorDisplayName"`
	Body              string     `json:"body"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
}

type Reply struct {
	Id                ReplyId    `json:"id"`
	ThreadId          ThreadId   `json:"threadId"`
	CommentId         CommentId  `json:"commentId"`
	AuthorId          Identity   `json:"authorId"`
	AuthorDisplayName string     `json:"authorDisplayName"`
	Body              string     `json:"body"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
}

// ReplyIndex is the reply collection: threadId -> commentId -> ordered replies.
type ReplyIndex map[ThreadId]map[CommentId][]Reply

// ThreadQuery drives the forum list view.
type ThreadQuery struct {
	Search   string
	Category Category
	Page     int
}

// ActivityKind distinguishes rows of the "my comments" view.
type ActivityKind string

const (
	ActivityComment ActivityKind = "comment"
	ActivityReply   ActivityKind = "reply"
)

type ActivityRow struct {
	Kind            ActivityKind `json:"kind"`
	Id              string       `json:"id"`
	ParentCommentId CommentId    `json:"parentCommentId,omitempty"`
	ThreadId        ThreadId     `json:"threadId"`
	ThreadTitle     string       `json:"threadTitle"`
	Category        Category     `json:"category"`
	Body            string       `json:"body"`
	CreatedAt       time.Time    `json:"createdAt"`
}
