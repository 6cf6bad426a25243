package records

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/apexcharge/paddock/shared/domain"
	"github.com/google/uuid"
)

const (
	defaultAuthorName = "anon"
	defaultAuthorId   = "seed@local"
)

// Normalizer turns arbitrary decoded JSON into well-formed records. It never
// fails: anything missing or malformed gets a default. Normalizing an already
// normalized record returns it unchanged.
type Normalizer struct {
	Now   func() time.Time
	NewID func() string
}

func NewNormalizer() *Normalizer {
	return &Normalizer{Now: time.Now, NewID: uuid.NewString}
}

// tracking returns a copy of n that records whether it had to generate an id
// or a timestamp.
func (n *Normalizer) tracking() (*Normalizer, *bool) {
	filled := new(bool)
	return &Normalizer{
		Now: func() time.Time {
			*filled = true
			return n.Now()
		},
		NewID: func() string {
			*filled = true
			return n.NewID()
		},
	}, filled
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// str returns the first string value found under keys, or def.
func str(m map[string]any, def string, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			return s
		}
	}
	return def
}

// count reads a non-negative integer. Numeric strings are accepted, fractions
// truncate, and anything negative or not finite becomes 0.
func count(m map[string]any, keys ...string) int64 {
	for _, k := range keys {
		var f float64
		switch v := m[k].(type) {
		case float64:
			f = v
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				continue
			}
			f = parsed
		default:
			continue
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
			return 0
		}
		if f >= math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(f)
	}
	return 0
}

func parseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed.UTC(), true
		}
		if parsed, err := time.Parse(time.DateOnly, t); err == nil {
			return parsed.UTC(), true
		}
	case float64:
		if !math.IsNaN(t) && !math.IsInf(t, 0) {
			return time.UnixMilli(int64(t)).UTC(), true
		}
	}
	return time.Time{}, false
}

func (n *Normalizer) timestamp(m map[string]any, key string) time.Time {
	if t, ok := parseTime(m[key]); ok {
		return t
	}
	return n.Now().UTC()
}

func optionalTime(m map[string]any, key string) *time.Time {
	if t, ok := parseTime(m[key]); ok {
		return &t
	}
	return nil
}

func (n *Normalizer) id(m map[string]any) string {
	if s := str(m, "", "id"); s != "" {
		return s
	}
	return n.NewID()
}

func category(v any) domain.Category {
	c, _ := v.(string)
	if cat := domain.Category(c); cat.Valid() {
		return cat
	}
	return domain.CategoryFree
}

func session(v any) domain.Session {
	s, _ := v.(string)
	if sess := domain.Session(s); sess.Valid() {
		return sess
	}
	return domain.SessionRace
}

func tags(v any) []string {
	out := []string{}
	arr, _ := v.([]any)
	for _, t := range arr {
		if s, ok := t.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (n *Normalizer) NormalizeComment(v any, threadId domain.ThreadId) domain.Comment {
	m := asMap(v)
	return domain.Comment{
		Id:                n.id(m),
		ThreadId:          threadId,
		AuthorId:          str(m, defaultAuthorId, "authorId"),
		AuthorDisplayName: str(m, defaultAuthorName, "authorDisplayName", "author"),
		Body:              str(m, "", "body"),
		CreatedAt:         n.timestamp(m, "createdAt"),
		UpdatedAt:         optionalTime(m, "updatedAt"),
	}
}

func (n *Normalizer) NormalizeThread(v any) domain.Thread {
	m := asMap(v)
	t := domain.Thread{
		Id:                n.id(m),
		Title:             str(m, "", "title"),
		Content:           str(m, "", "content"),
		AuthorId:          str(m, defaultAuthorId, "authorId"),
		AuthorDisplayName: str(m, defaultAuthorName, "authorDisplayName", "author"),
		CreatedAt:         n.timestamp(m, "createdAt"),
		UpdatedAt:         optionalTime(m, "updatedAt"),
		Category:          category(m["category"]),
		Comments:          []domain.Comment{},
		ViewCount:         count(m, "viewCount", "views"),
		LikeCount:         count(m, "likeCount", "likes"),
		DislikeCount:      count(m, "dislikeCount", "dislikes"),
	}
	comments, _ := m["comments"].([]any)
	for _, c := range comments {
		t.Comments = append(t.Comments, n.NormalizeComment(c, t.Id))
	}
	return t
}

// NormalizeThreads normalizes the thread collection. Anything but an array is empty.
func (n *Normalizer) NormalizeThreads(v any) []domain.Thread {
	arr, _ := v.([]any)
	out := make([]domain.Thread, 0, len(arr))
	for _, t := range arr {
		out = append(out, n.NormalizeThread(t))
	}
	return out
}

func (n *Normalizer) NormalizeReply(v any, threadId domain.ThreadId, commentId domain.CommentId) domain.Reply {
	m := asMap(v)
	return domain.Reply{
		Id:                n.id(m),
		ThreadId:          threadId,
		CommentId:         commentId,
		AuthorId:          str(m, defaultAuthorId, "authorId"),
		AuthorDisplayName: str(m, defaultAuthorName, "authorDisplayName", "author"),
		Body:              str(m, "", "body"),
		CreatedAt:         n.timestamp(m, "createdAt"),
		UpdatedAt:         optionalTime(m, "updatedAt"),
	}
}

// NormalizeReplies normalizes threadId -> commentId -> []Reply. Malformed
// levels are dropped, and so are empty lists and maps.
func (n *Normalizer) NormalizeReplies(v any) domain.ReplyIndex {
	out := domain.ReplyIndex{}
	for threadId, byComment := range asMap(v) {
		for commentId, list := range asMap(byComment) {
			arr, ok := list.([]any)
			if !ok || len(arr) == 0 {
				continue
			}
			replies := make([]domain.Reply, 0, len(arr))
			for _, r := range arr {
				replies = append(replies, n.NormalizeReply(r, threadId, commentId))
			}
			if out[threadId] == nil {
				out[threadId] = map[domain.CommentId][]domain.Reply{}
			}
			out[threadId][commentId] = replies
		}
	}
	return out
}

// NormalizeVoteLedger keeps boolean flags only. An entry claiming both like
// and dislike, or neither, is dropped.
func (n *Normalizer) NormalizeVoteLedger(v any) domain.VoteLedger {
	out := domain.VoteLedger{}
	for actor, byTarget := range asMap(v) {
		for target, entry := range asMap(byTarget) {
			m := asMap(entry)
			like, _ := m["like"].(bool)
			dislike, _ := m["dislike"].(bool)
			if like == dislike {
				continue
			}
			if out[actor] == nil {
				out[actor] = map[string]domain.VoteState{}
			}
			out[actor][target] = domain.VoteState{Like: like, Dislike: dislike}
		}
	}
	return out
}

func (n *Normalizer) NormalizePhoto(v any) domain.Photo {
	m := asMap(v)
	return domain.Photo{
		Id:                  n.id(m),
		Gp:                  str(m, "", "gp"),
		Round:               int(count(m, "round")),
		Country:             str(m, "", "country"),
		Circuit:             str(m, "", "circuit"),
		Session:             session(m["session"]),
		DateISO:             str(m, "", "dateISO"),
		CoverUrl:            str(m, "", "coverUrl"),
		Tags:                tags(m["tags"]),
		CreatedAt:           n.timestamp(m, "createdAt"),
		ViewCount:           count(m, "viewCount", "views"),
		LikeCount:           count(m, "likeCount", "likes"),
		DislikeCount:        count(m, "dislikeCount", "dislikes"),
		UploaderDisplayName: str(m, "", "uploaderDisplayName", "uploaderName"),
		UploaderEmail:       str(m, "", "uploaderEmail"),
		DeleteSecretHash:    str(m, "", "deleteSecretHash"),
	}
}

func (n *Normalizer) NormalizePhotos(v any) []domain.Photo {
	arr, _ := v.([]any)
	out := make([]domain.Photo, 0, len(arr))
	for _, p := range arr {
		out = append(out, n.NormalizePhoto(p))
	}
	return out
}
