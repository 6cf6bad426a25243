package service

import (
	"context"
	"slices"
	"time"

	"github.com/apexcharge/paddock/backend/internal/policy"
	"github.com/apexcharge/paddock/backend/internal/service/utils"
	"github.com/apexcharge/paddock/shared/config"
	"github.com/apexcharge/paddock/shared/domain"
	"github.com/apexcharge/paddock/shared/errors"
	"github.com/google/uuid"
)

type CommentService interface {
	ListComments(ctx context.Context, threadId domain.ThreadId, page int) (domain.Page[domain.Comment], error)
	AddComment(ctx context.Context, actor *domain.Actor, threadId domain.ThreadId, body string) (domain.Comment, error)
	EditComment(ctx context.Context, actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, body string) (domain.Comment, error)
	DeleteComment(ctx context.Context, actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId) error

	ListReplies(ctx context.Context, threadId domain.ThreadId, commentId domain.CommentId, page int) (domain.Page[domain.Reply], error)
	AddReply(ctx context.Context, actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, body string) (domain.Reply, error)
	EditReply(ctx context.Context, actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, replyId domain.ReplyId, body string) (domain.Reply, error)
	DeleteReply(ctx context.Context, actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, replyId domain.ReplyId) error
}

// Comment manages comments, which live inside their thread record, and
// replies, which live in the separate reply index.
type Comment struct {
	storage   ForumStorage
	sanitizer *utils.Sanitizer
	cfg       *config.Public
	now       func() time.Time
	newID     func() string
}

func NewComment(storage ForumStorage, cfg *config.Public) *Comment {
	return &Comment{
		storage:   storage,
		sanitizer: utils.NewSanitizer(),
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *Comment) body(in string) (string, error) {
	body := s.sanitizer.Text(in)
	if err := checkLength("body", body, maxContentRunes); err != nil {
		return "", err
	}
	return body, nil
}

// findComment locates a comment in a freshly read thread list.
func findComment(threads []domain.Thread, threadId domain.ThreadId, commentId domain.CommentId) (int, int, error) {
	ti := threadIndex(threads, threadId)
	if ti < 0 {
		return -1, -1, errors.NotFound("thread", threadId)
	}
	ci := threads[ti].CommentIndex(commentId)
	if ci < 0 {
		return ti, -1, errors.NotFound("comment", commentId)
	}
	return ti, ci, nil
}

func (s *Comment) ListComments(ctx context.Context, threadId domain.ThreadId, page int) (domain.Page[domain.Comment], error) {
	threads := s.storage.Threads(ctx)
	i := threadIndex(threads, threadId)
	if i < 0 {
		return domain.Page[domain.Comment]{}, errors.NotFound("thread", threadId)
	}
	return domain.Paginate(threads[i].Comments, page, s.cfg.CommentsPerPage), nil
}

func (s *Comment) AddComment(ctx context.Context, actor *domain.Actor, threadId domain.ThreadId, body string) (domain.Comment, error) {
	if actor == nil {
		return domain.Comment{}, errors.ErrLoginRequired
	}
	body, err := s.body(body)
	if err != nil {
		return domain.Comment{}, err
	}

	c := domain.Comment{
		Id:                s.newID(),
		ThreadId:          threadId,
		AuthorId:          policy.Identity(actor),
		AuthorDisplayName: actor.DisplayName(),
		Body:              body,
		CreatedAt:         s.now().UTC(),
	}
	err = s.storage.UpdateThreads(ctx, func(threads []domain.Thread) ([]domain.Thread, error) {
		i := threadIndex(threads, threadId)
		if i < 0 {
			return nil, errors.NotFound("thread", threadId)
		}
		threads[i].Comments = append(threads[i].Comments, c)
		return threads, nil
	})
	if err != nil {
		return domain.Comment{}, err
	}
	countWrite("comment", "create")
	return c, nil
}

func (s *Comment) EditComment(ctx context.Context, actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, body string) (domain.Comment, error) {
	body, err := s.body(body)
	if err != nil {
		return domain.Comment{}, err
	}

	var edited domain.Comment
	err = s.storage.UpdateThreads(ctx, func(threads []domain.Thread) ([]domain.Thread, error) {
		ti, ci, err := findComment(threads, threadId, commentId)
		if err != nil {
			return nil, err
		}
		c := &threads[ti].Comments[ci]
		if !policy.CanEdit(actor, c.AuthorId) {
			return nil, errors.Forbidden("only the author can edit this comment")
		}
		now := s.now().UTC()
		c.Body = body
		c.UpdatedAt = &now
		edited = *c
		return threads, nil
	})
	if err != nil {
		return domain.Comment{}, err
	}
	countWrite("comment", "edit")
	return edited, nil
}

// DeleteComment removes the comment and then, in a separate write, its replies.
func (s *Comment) DeleteComment(ctx context.Context, actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId) error {
	err := s.storage.UpdateThreads(ctx, func(threads []domain.Thread) ([]domain.Thread, error) {
		ti, ci, err := findComment(threads, threadId, commentId)
		if err != nil {
			return nil, err
		}
		if !policy.CanMutate(actor, threads[ti].Comments[ci].AuthorId) {
			return nil, errors.Forbidden("only the author or an admin can delete this comment")
		}
		threads[ti].Comments = slices.Delete(threads[ti].Comments, ci, ci+1)
		return threads, nil
	})
	if err != nil {
		return err
	}
	countWrite("comment", "delete")

	return s.storage.UpdateReplies(ctx, func(replies domain.ReplyIndex) (domain.ReplyIndex, error) {
		pruneReplies(replies, threadId, commentId, nil)
		return replies, nil
	})
}
