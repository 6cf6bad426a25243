package service

import (
	"context"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/apexcharge/paddock/backend/internal/policy"
	"github.com/apexcharge/paddock/backend/internal/service/utils"
	"github.com/apexcharge/paddock/shared/config"
	"github.com/apexcharge/paddock/shared/domain"
	"github.com/apexcharge/paddock/shared/errors"
	"github.com/apexcharge/paddock/shared/markdown"
	"github.com/google/uuid"
)

const (
	maxTitleRunes   = 120
	maxContentRunes = 10000
)

type ThreadService interface {
	List(ctx context.Context) []domain.Thread
	Browse(ctx context.Context, q domain.ThreadQuery) domain.Page[domain.Thread]
	Get(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
	Detail(ctx context.Context, id domain.ThreadId) (ThreadDetail, error)
	Create(ctx context.Context, actor *domain.Actor, title, content string, category domain.Category) (domain.Thread, error)
	Edit(ctx context.Context, actor *domain.Actor, id domain.ThreadId, title, content *string) (domain.Thread, error)
	Delete(ctx context.Context, actor *domain.Actor, id domain.ThreadId) error
	BumpView(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
	Vote(ctx context.Context, actor *domain.Actor, id domain.ThreadId, kind domain.VoteKind) (domain.VoteResult, error)
	GetVote(ctx context.Context, actor *domain.Actor, id domain.ThreadId) domain.VoteState
}

// ThreadDetail is what the thread page shows: the thread, its content
// rendered from markdown and the first page of comments.
type ThreadDetail struct {
	Thread      domain.Thread               `json:"thread"`
	ContentHTML string                      `json:"contentHtml"`
	CommentIds  []domain.CommentId          `json:"commentIds"`
	Comments    domain.Page[domain.Comment] `json:"comments"`
}

type Thread struct {
	storage   ForumStorage
	sanitizer *utils.Sanitizer
	renderer  *markdown.Renderer
	cfg       *config.Public
	now       func() time.Time
	newID     func() string
}

func NewThread(storage ForumStorage, cfg *config.Public) *Thread {
	return &Thread{
		storage:   storage,
		sanitizer: utils.NewSanitizer(),
		renderer:  markdown.New(),
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func checkLength(field, value string, limit int) error {
	if value == "" {
		return errors.Validation("%s is required", field)
	}
	if utf8.RuneCountInString(value) > limit {
		return errors.Validation("%s is longer than %d characters", field, limit)
	}
	return nil
}

func (s *Thread) List(ctx context.Context) []domain.Thread {
	return s.storage.Threads(ctx)
}

func threadMatches(t *domain.Thread, needle string) bool {
	hay := []string{t.Title, t.Content, t.AuthorDisplayName}
	hay = append(hay, t.Category.Labels()...)
	return strings.Contains(strings.ToLower(strings.Join(hay, " ")), needle)
}

// Browse is the forum list: newest first, filtered by category and a
// case-insensitive search over title, content, author and category labels.
func (s *Thread) Browse(ctx context.Context, q domain.ThreadQuery) domain.Page[domain.Thread] {
	threads := s.storage.Threads(ctx)
	slices.SortStableFunc(threads, func(a, b domain.Thread) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	filtered := threads[:0]
	for i := range threads {
		if q.Category != "" && threads[i].Category != q.Category {
			continue
		}
		if needle != "" && !threadMatches(&threads[i], needle) {
			continue
		}
		filtered = append(filtered, threads[i])
	}
	return domain.Paginate(filtered, q.Page, s.cfg.ThreadsPerPage)
}

func (s *Thread) Get(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	threads := s.storage.Threads(ctx)
	i := threadIndex(threads, id)
	if i < 0 {
		return domain.Thread{}, errors.NotFound("thread", id)
	}
	return threads[i], nil
}

func (s *Thread) Detail(ctx context.Context, id domain.ThreadId) (ThreadDetail, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return ThreadDetail{}, err
	}
	return ThreadDetail{
		Thread:      t,
		ContentHTML: s.renderer.Render(t.Content),
		CommentIds:  t.CommentIds(),
		Comments:    domain.Paginate(t.Comments, 1, s.cfg.CommentsPerPage),
	}, nil
}

func (s *Thread) Create(ctx context.Context, actor *domain.Actor, title, content string, category domain.Category) (domain.Thread, error) {
	if actor == nil {
		return domain.Thread{}, errors.ErrLoginRequired
	}
	title = s.sanitizer.Text(title)
	content = s.sanitizer.Text(content)
	if err := checkLength("title", title, maxTitleRunes); err != nil {
		return domain.Thread{}, err
	}
	if err := checkLength("content", content, maxContentRunes); err != nil {
		return domain.Thread{}, err
	}
	if category == "" {
		category = domain.CategoryFree
	}
	if !category.Valid() {
		return domain.Thread{}, errors.Validation("unknown category %q", category)
	}

	t := domain.Thread{
		Id:                s.newID(),
		Title:             title,
		Content:           content,
		AuthorId:          policy.Identity(actor),
		AuthorDisplayName: actor.DisplayName(),
		CreatedAt:         s.now().UTC(),
		Category:          category,
		Comments:          []domain.Comment{},
	}
	err := s.storage.UpdateThreads(ctx, func(threads []domain.Thread) ([]domain.Thread, error) {
		return append([]domain.Thread{t}, threads...), nil
	})
	if err != nil {
		return domain.Thread{}, err
	}
	countWrite("thread", "create")
	return t, nil
}

// Edit changes title and/or content. Only the author may edit; admins can
// delete a thread but not rewrite it.
func (s *Thread) Edit(ctx context.Context, actor *domain.Actor, id domain.ThreadId, title, content *string) (domain.Thread, error) {
	if title == nil && content == nil {
		return domain.Thread{}, errors.Validation("nothing to edit")
	}
	var newTitle, newContent string
	if title != nil {
		newTitle = s.sanitizer.Text(*title)
		if err := checkLength("title", newTitle, maxTitleRunes); err != nil {
			return domain.Thread{}, err
		}
	}
	if content != nil {
		newContent = s.sanitizer.Text(*content)
		if err := checkLength("content", newContent, maxContentRunes); err != nil {
			return domain.Thread{}, err
		}
	}

	var edited domain.Thread
	err := s.storage.UpdateThreads(ctx, func(threads []domain.Thread) ([]domain.Thread, error) {
		i := threadIndex(threads, id)
		if i < 0 {
			return nil, errors.NotFound("thread", id)
		}
		if !policy.CanEdit(actor, threads[i].AuthorId) {
			return nil, errors.Forbidden("only the author can edit this thread")
		}
		if title != nil {
			threads[i].Title = newTitle
		}
		if content != nil {
			threads[i].Content = newContent
		}
		now := s.now().UTC()
		threads[i].UpdatedAt = &now
		edited = threads[i]
		return threads, nil
	})
	if err != nil {
		return domain.Thread{}, err
	}
	countWrite("thread", "edit")
	return edited, nil
}

// Delete removes the thread, then its replies, then the votes on it. The
// three writes are independent.
func (s *Thread) Delete(ctx context.Context, actor *domain.Actor, id domain.ThreadId) error {
	err := s.storage.UpdateThreads(ctx, func(threads []domain.Thread) ([]domain.Thread, error) {
		i := threadIndex(threads, id)
		if i < 0 {
			return nil, errors.NotFound("thread", id)
		}
		if !policy.CanMutate(actor, threads[i].AuthorId) {
			return nil, errors.Forbidden("only the author or an admin can delete this thread")
		}
		return slices.Delete(threads, i, i+1), nil
	})
	if err != nil {
		return err
	}
	countWrite("thread", "delete")
	s.cascadeDelete(ctx, id)
	return nil
}

func (s *Thread) cascadeDelete(ctx context.Context, id domain.ThreadId) {
	// Neither callback fails, so the errors are always nil.
	_ = s.storage.UpdateReplies(ctx, func(replies domain.ReplyIndex) (domain.ReplyIndex, error) {
		delete(replies, id)
		return replies, nil
	})
	_ = s.storage.UpdateThreadVotes(ctx, func(ledger domain.VoteLedger) (domain.VoteLedger, error) {
		forgetTarget(ledger, id)
		return ledger, nil
	})
}

func (s *Thread) BumpView(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	var bumped domain.Thread
	err := s.storage.UpdateThreads(ctx, func(threads []domain.Thread) ([]domain.Thread, error) {
		i := threadIndex(threads, id)
		if i < 0 {
			return nil, errors.NotFound("thread", id)
		}
		threads[i].ViewCount++
		bumped = threads[i]
		return threads, nil
	})
	return bumped, err
}

// Vote toggles the actor's like or dislike. The ledger lock is held while
// the thread counters are updated, so counters always match the ledger.
func (s *Thread) Vote(ctx context.Context, actor *domain.Actor, id domain.ThreadId, kind domain.VoteKind) (domain.VoteResult, error) {
	if err := validateVote(actor, kind); err != nil {
		return domain.VoteResult{}, err
	}

	var result domain.VoteResult
	err := s.storage.UpdateThreadVotes(ctx, func(ledger domain.VoteLedger) (domain.VoteLedger, error) {
		state, likeDelta, dislikeDelta := castVote(ledger, policy.Identity(actor), id, kind)
		err := s.storage.UpdateThreads(ctx, func(threads []domain.Thread) ([]domain.Thread, error) {
			i := threadIndex(threads, id)
			if i < 0 {
				return nil, errors.NotFound("thread", id)
			}
			threads[i].LikeCount = clampAdd(threads[i].LikeCount, likeDelta)
			threads[i].DislikeCount = clampAdd(threads[i].DislikeCount, dislikeDelta)
			result = domain.VoteResult{State: state, LikeCount: threads[i].LikeCount, DislikeCount: threads[i].DislikeCount}
			return threads, nil
		})
		if err != nil {
			return nil, err
		}
		return ledger, nil
	})
	if err != nil {
		return domain.VoteResult{}, err
	}
	countWrite("vote", string(kind))
	return result, nil
}

func (s *Thread) GetVote(ctx context.Context, actor *domain.Actor, id domain.ThreadId) domain.VoteState {
	who := policy.Identity(actor)
	if who == "" {
		return domain.VoteState{}
	}
	return s.storage.ThreadVotes(ctx)[who][id]
}
