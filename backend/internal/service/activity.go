package service

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/apexcharge/paddock/backend/internal/policy"
	"github.com/apexcharge/paddock/shared/domain"
	"github.com/apexcharge/paddock/shared/errors"
)

// ActivityService backs the "my posts", "my comments" and "my media" views.
type ActivityService interface {
	Threads(ctx context.Context, actor *domain.Actor) ([]domain.Thread, error)
	Comments(ctx context.Context, actor *domain.Actor) ([]domain.ActivityRow, error)
	Photos(ctx context.Context, actor *domain.Actor) ([]domain.Photo, error)
	DeleteThreads(ctx context.Context, actor *domain.Actor, ids []domain.ThreadId) ([]DeleteResult, error)
}

// DeleteResult is the outcome for one id of a bulk delete.
type DeleteResult struct {
	Id      string `json:"id"`
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

type Activity struct {
	forum   ForumStorage
	photos  PhotoStorage
	threads ThreadService
}

func NewActivity(forum ForumStorage, photos PhotoStorage, threads ThreadService) *Activity {
	return &Activity{forum: forum, photos: photos, threads: threads}
}

func identityOf(actor *domain.Actor) (domain.Identity, error) {
	who := policy.Identity(actor)
	if who == "" {
		return "", errors.ErrLoginRequired
	}
	return who, nil
}

// Threads returns the actor's threads, newest first.
func (s *Activity) Threads(ctx context.Context, actor *domain.Actor) ([]domain.Thread, error) {
	who, err := identityOf(actor)
	if err != nil {
		return nil, err
	}
	mine := []domain.Thread{}
	for _, t := range s.forum.Threads(ctx) {
		if strings.EqualFold(t.AuthorId, who) {
			mine = append(mine, t)
		}
	}
	slices.SortStableFunc(mine, func(a, b domain.Thread) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return mine, nil
}

// Comments returns the actor's comments and replies in one list, newest first.
func (s *Activity) Comments(ctx context.Context, actor *domain.Actor) ([]domain.ActivityRow, error) {
	who, err := identityOf(actor)
	if err != nil {
		return nil, err
	}
	replies := s.forum.Replies(ctx)

	rows := []domain.ActivityRow{}
	for _, t := range s.forum.Threads(ctx) {
		for _, c := range t.Comments {
			if strings.EqualFold(c.AuthorId, who) {
				rows = append(rows, domain.ActivityRow{
					Kind:        domain.ActivityComment,
					Id:          c.Id,
					ThreadId:    t.Id,
					ThreadTitle: t.Title,
					Category:    t.Category,
					Body:        c.Body,
					CreatedAt:   c.CreatedAt,
				})
			}
		}
		for commentId, list := range replies[t.Id] {
			for _, r := range list {
				if strings.EqualFold(r.AuthorId, who) {
					rows = append(rows, domain.ActivityRow{
						Kind:            domain.ActivityReply,
						Id:              r.Id,
						ParentCommentId: commentId,
						ThreadId:        t.Id,
						ThreadTitle:     t.Title,
						Category:        t.Category,
						Body:            r.Body,
						CreatedAt:       r.CreatedAt,
					})
				}
			}
		}
	}
	slices.SortFunc(rows, func(a, b domain.ActivityRow) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Id, b.Id)
	})
	return rows, nil
}

// Photos returns what the actor uploaded while signed in, newest race date first.
func (s *Activity) Photos(ctx context.Context, actor *domain.Actor) ([]domain.Photo, error) {
	if _, err := identityOf(actor); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(actor.Email)
	mine := []domain.Photo{}
	if email == "" {
		return mine, nil
	}
	for _, p := range s.photos.Photos(ctx) {
		if strings.EqualFold(p.UploaderEmail, email) {
			mine = append(mine, p)
		}
	}
	sortPhotos(mine)
	return mine, nil
}

// DeleteThreads deletes each selected thread on its own. One failure does not
// stop the rest; the per-id outcome is reported.
func (s *Activity) DeleteThreads(ctx context.Context, actor *domain.Actor, ids []domain.ThreadId) ([]DeleteResult, error) {
	if _, err := identityOf(actor); err != nil {
		return nil, err
	}
	results := make([]DeleteResult, 0, len(ids))
	for _, id := range ids {
		res := DeleteResult{Id: id, Deleted: true}
		if err := s.threads.Delete(ctx, actor, id); err != nil {
			res.Deleted = false
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results, nil
}
