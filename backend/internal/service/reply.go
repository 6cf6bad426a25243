package service

import (
	"context"
	"slices"

	"github.com/apexcharge/paddock/backend/internal/policy"
	"github.com/apexcharge/paddock/shared/domain"
	"github.com/apexcharge/paddock/shared/errors"
)

// pruneReplies replaces the reply list of a comment with keep, dropping the
// list and then the thread map once they are empty.
func pruneReplies(index domain.ReplyIndex, threadId domain.ThreadId, commentId domain.CommentId, keep []domain.Reply) {
	byComment := index[threadId]
	if byComment == nil {
		return
	}
	if len(keep) == 0 {
		delete(byComment, commentId)
	} else {
		byComment[commentId] = keep
	}
	if len(byComment) == 0 {
		delete(index, threadId)
	}
}

func replyIndex(replies []domain.Reply, id domain.ReplyId) int {
	for i := range replies {
		if replies[i].Id == id {
			return i
		}
	}
	return -1
}

// commentExists checks the parent of a reply.
func (s *Comment) commentExists(ctx context.Context, threadId domain.ThreadId, commentId domain.CommentId) error {
	_, _, err := findComment(s.storage.Threads(ctx), threadId, commentId)
	return err
}

func (s *Comment) ListReplies(ctx context.Context, threadId domain.ThreadId, commentId domain.CommentId, page int) (domain.Page[domain.Reply], error) {
	if err := s.commentExists(ctx, threadId, commentId); err != nil {
		return domain.Page[domain.Reply]{}, err
	}
	replies := s.storage.Replies(ctx)[threadId][commentId]
	return domain.Paginate(replies, page, s.cfg.RepliesPerPage), nil
}

// AddReply appends a reply to a comment. A comment deleted between the check
// and the write leaves an orphan list, which the content collector prunes.
func (s *Comment) AddReply(ctx context.Context, actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, body string) (domain.Reply, error) {
	if actor == nil {
		return domain.Reply{}, errors.ErrLoginRequired
	}
	body, err := s.body(body)
	if err != nil {
		return domain.Reply{}, err
	}
	if err := s.commentExists(ctx, threadId, commentId); err != nil {
		return domain.Reply{}, err
	}

	r := domain.Reply{
		Id:                s.newID(),
		ThreadId:          threadId,
		CommentId:         commentId,
		AuthorId:          policy.Identity(actor),
		AuthorDisplayName: actor.DisplayName(),
		Body:              body,
		CreatedAt:         s.now().UTC(),
	}
	err = s.storage.UpdateReplies(ctx, func(index domain.ReplyIndex) (domain.ReplyIndex, error) {
		if index[threadId] == nil {
			index[threadId] = map[domain.CommentId][]domain.Reply{}
		}
		index[threadId][commentId] = append(index[threadId][commentId], r)
		return index, nil
	})
	if err != nil {
		return domain.Reply{}, err
	}
	countWrite("reply", "create")
	return r, nil
}

func (s *Comment) EditReply(ctx context.Context, actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, replyId domain.ReplyId, body string) (domain.Reply, error) {
	body, err := s.body(body)
	if err != nil {
		return domain.Reply{}, err
	}

	var edited domain.Reply
	err = s.storage.UpdateReplies(ctx, func(index domain.ReplyIndex) (domain.ReplyIndex, error) {
		list := index[threadId][commentId]
		i := replyIndex(list, replyId)
		if i < 0 {
			return nil, errors.NotFound("reply", replyId)
		}
		if !policy.CanEdit(actor, list[i].AuthorId) {
			return nil, errors.Forbidden("only the author can edit this reply")
		}
		now := s.now().UTC()
		list[i].Body = body
		list[i].UpdatedAt = &now
		edited = list[i]
		return index, nil
	})
	if err != nil {
		return domain.Reply{}, err
	}
	countWrite("reply", "edit")
	return edited, nil
}

func (s *Comment) DeleteReply(ctx context.Context, actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, replyId domain.ReplyId) error {
	err := s.storage.UpdateReplies(ctx, func(index domain.ReplyIndex) (domain.ReplyIndex, error) {
		list := index[threadId][commentId]
		i := replyIndex(list, replyId)
		if i < 0 {
			return nil, errors.NotFound("reply", replyId)
		}
		if !policy.CanMutate(actor, list[i].AuthorId) {
			return nil, errors.Forbidden("only the author or an admin can delete this reply")
		}
		pruneReplies(index, threadId, commentId, slices.Delete(list, i, i+1))
		return index, nil
	})
	if err != nil {
		return err
	}
	countWrite("reply", "delete")
	return nil
}
