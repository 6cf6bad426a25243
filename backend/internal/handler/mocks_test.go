package handler

import (
	"context"
	"io"

	"github.com/apexcharge/paddock/backend/internal/policy"
	"github.com/apexcharge/paddock/backend/internal/service"
	"github.com/apexcharge/paddock/shared/domain"
)

type MockAuthService struct {
	MockLogin func(email, password string) (string, domain.Actor, error)
}

func (m *MockAuthService) Login(email, password string) (string, domain.Actor, error) {
	if m.MockLogin != nil {
		return m.MockLogin(email, password)
	}
	return "token", domain.Actor{Id: "u1", Email: email}, nil
}

type MockThreadService struct {
	MockList     func() []domain.Thread
	MockBrowse   func(q domain.ThreadQuery) domain.Page[domain.Thread]
	MockGet      func(id domain.ThreadId) (domain.Thread, error)
	MockDetail   func(id domain.ThreadId) (service.ThreadDetail, error)
	MockCreate   func(actor *domain.Actor, title, content string, category domain.Category) (domain.Thread, error)
	MockEdit     func(actor *domain.Actor, id domain.ThreadId, title, content *string) (domain.Thread, error)
	MockDelete   func(actor *domain.Actor, id domain.ThreadId) error
	MockBumpView func(id domain.ThreadId) (domain.Thread, error)
	MockVote     func(actor *domain.Actor, id domain.ThreadId, kind domain.VoteKind) (domain.VoteResult, error)
	MockGetVote  func(actor *domain.Actor, id domain.ThreadId) domain.VoteState
}

func (m *MockThreadService) List(context.Context) []domain.Thread {
	if m.MockList != nil {
		return m.MockList()
	}
	return nil
}

func (m *MockThreadService) Browse(_ context.Context, q domain.ThreadQuery) domain.Page[domain.Thread] {
	if m.MockBrowse != nil {
		return m.MockBrowse(q)
	}
	return domain.Page[domain.Thread]{}
}

func (m *MockThreadService) Get(_ context.Context, id domain.ThreadId) (domain.Thread, error) {
	if m.MockGet != nil {
		return m.MockGet(id)
	}
	return domain.Thread{Id: id}, nil
}

func (m *MockThreadService) Detail(_ context.Context, id domain.ThreadId) (service.ThreadDetail, error) {
	if m.MockDetail != nil {
		return m.MockDetail(id)
	}
	return service.ThreadDetail{Thread: domain.Thread{Id: id}}, nil
}

func (m *MockThreadService) Create(_ context.Context, actor *domain.Actor, title, content string, category domain.Category) (domain.Thread, error) {
	if m.MockCreate != nil {
		return m.MockCreate(actor, title, content, category)
	}
	return domain.Thread{Id: "t1", Title: title}, nil
}

func (m *MockThreadService) Edit(_ context.Context, actor *domain.Actor, id domain.ThreadId, title, content *string) (domain.Thread, error) {
	if m.MockEdit != nil {
		return m.MockEdit(actor, id, title, content)
	}
	return domain.Thread{Id: id}, nil
}

func (m *MockThreadService) Delete(_ context.Context, actor *domain.Actor, id domain.ThreadId) error {
	if m.MockDelete != nil {
		return m.MockDelete(actor, id)
	}
	return nil
}

func (m *MockThreadService) BumpView(_ context.Context, id domain.ThreadId) (domain.Thread, error) {
	if m.MockBumpView != nil {
		return m.MockBumpView(id)
	}
	return domain.Thread{Id: id, ViewCount: 1}, nil
}

func (m *MockThreadService) Vote(_ context.Context, actor *domain.Actor, id domain.ThreadId, kind domain.VoteKind) (domain.VoteResult, error) {
	if m.MockVote != nil {
		return m.MockVote(actor, id, kind)
	}
	return domain.VoteResult{}, nil
}

func (m *MockThreadService) GetVote(_ context.Context, actor *domain.Actor, id domain.ThreadId) domain.VoteState {
	if m.MockGetVote != nil {
		return m.MockGetVote(actor, id)
	}
	return domain.VoteState{}
}

type MockCommentService struct {
	MockListComments  func(threadId domain.ThreadId, page int) (domain.Page[domain.Comment], error)
	MockAddComment    func(actor *domain.Actor, threadId domain.ThreadId, body string) (domain.Comment, error)
	MockEditComment   func(actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, body string) (domain.Comment, error)
	MockDeleteComment func(actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId) error
	MockListReplies   func(threadId domain.ThreadId, commentId domain.CommentId, page int) (domain.Page[domain.Reply], error)
	MockAddReply      func(actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, body string) (domain.Reply, error)
	MockEditReply     func(actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, replyId domain.ReplyId, body string) (domain.Reply, error)
	MockDeleteReply   func(actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, replyId domain.ReplyId) error
}

func (m *MockCommentService) ListComments(_ context.Context, threadId domain.ThreadId, page int) (domain.Page[domain.Comment], error) {
	if m.MockListComments != nil {
		return m.MockListComments(threadId, page)
	}
	return domain.Page[domain.Comment]{}, nil
}

func (m *MockCommentService) AddComment(_ context.Context, actor *domain.Actor, threadId domain.ThreadId, body string) (domain.Comment, error) {
	if m.MockAddComment != nil {
		return m.MockAddComment(actor, threadId, body)
	}
	return domain.Comment{Id: "c1", ThreadId: threadId, Body: body}, nil
}

func (m *MockCommentService) EditComment(_ context.Context, actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, body string) (domain.Comment, error) {
	if m.MockEditComment != nil {
		return m.MockEditComment(actor, threadId, commentId, body)
	}
	return domain.Comment{Id: commentId, ThreadId: threadId, Body: body}, nil
}

func (m *MockCommentService) DeleteComment(_ context.Context, actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId) error {
	if m.MockDeleteComment != nil {
		return m.MockDeleteComment(actor, threadId, commentId)
	}
	return nil
}

func (m *MockCommentService) ListReplies(_ context.Context, threadId domain.ThreadId, commentId domain.CommentId, page int) (domain.Page[domain.Reply], error) {
	if m.MockListReplies != nil {
		return m.MockListReplies(threadId, commentId, page)
	}
	return domain.Page[domain.Reply]{}, nil
}

func (m *MockCommentService) AddReply(_ context.Context, actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, body string) (domain.Reply, error) {
	if m.MockAddReply != nil {
		return m.MockAddReply(actor, threadId, commentId, body)
	}
	return domain.Reply{Id: "r1", ThreadId: threadId, CommentId: commentId, Body: body}, nil
}

func (m *MockCommentService) EditReply(_ context.Context, actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, replyId domain.ReplyId, body string) (domain.Reply, error) {
	if m.MockEditReply != nil {
		return m.MockEditReply(actor, threadId, commentId, replyId, body)
	}
	return domain.Reply{Id: replyId, ThreadId: threadId, CommentId: commentId, Body: body}, nil
}

func (m *MockCommentService) DeleteReply(_ context.Context, actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, replyId domain.ReplyId) error {
	if m.MockDeleteReply != nil {
		return m.MockDeleteReply(actor, threadId, commentId, replyId)
	}
	return nil
}

type MockMediaService struct {
	MockList     func(q domain.PhotoQuery) domain.Page[domain.Photo]
	MockGet      func(id domain.PhotoId) (domain.Photo, error)
	MockUpload   func(actor *domain.Actor, in domain.PhotoUpload, deletePassword string) (domain.Photo, error)
	MockBumpView func(id domain.PhotoId) (domain.Photo, error)
	MockLike     func(id domain.PhotoId, delta int) (domain.Photo, error)
	MockVote     func(actor *domain.Actor, id domain.PhotoId, kind domain.VoteKind) (domain.VoteResult, error)
	MockGetVote  func(actor *domain.Actor, id domain.PhotoId) domain.VoteState
	MockDelete   func(actor *domain.Actor, id domain.PhotoId, proof string) (policy.Grant, error)
	MockCover    func(id domain.PhotoId) (io.ReadCloser, domain.BlobInfo, error)
}

func (m *MockMediaService) List(_ context.Context, q domain.PhotoQuery) domain.Page[domain.Photo] {
	if m.MockList != nil {
		return m.MockList(q)
	}
	return domain.Page[domain.Photo]{}
}

func (m *MockMediaService) Get(_ context.Context, id domain.PhotoId) (domain.Photo, error) {
	if m.MockGet != nil {
		return m.MockGet(id)
	}
	return domain.Photo{Id: id}, nil
}

func (m *MockMediaService) Upload(_ context.Context, actor *domain.Actor, in domain.PhotoUpload, deletePassword string) (domain.Photo, error) {
	if m.MockUpload != nil {
		return m.MockUpload(actor, in, deletePassword)
	}
	return domain.Photo{Id: "p1", Gp: in.Gp}, nil
}

func (m *MockMediaService) BumpView(_ context.Context, id domain.PhotoId) (domain.Photo, error) {
	if m.MockBumpView != nil {
		return m.MockBumpView(id)
	}
	return domain.Photo{Id: id, ViewCount: 1}, nil
}

func (m *MockMediaService) Like(_ context.Context, id domain.PhotoId, delta int) (domain.Photo, error) {
	if m.MockLike != nil {
		return m.MockLike(id, delta)
	}
	return domain.Photo{Id: id}, nil
}

func (m *MockMediaService) Vote(_ context.Context, actor *domain.Actor, id domain.PhotoId, kind domain.VoteKind) (domain.VoteResult, error) {
	if m.MockVote != nil {
		return m.MockVote(actor, id, kind)
	}
	return domain.VoteResult{}, nil
}

func (m *MockMediaService) GetVote(_ context.Context, actor *domain.Actor, id domain.PhotoId) domain.VoteState {
	if m.MockGetVote != nil {
		return m.MockGetVote(actor, id)
	}
	return domain.VoteState{}
}

func (m *MockMediaService) Delete(_ context.Context, actor *domain.Actor, id domain.PhotoId, proof string) (policy.Grant, error) {
	if m.MockDelete != nil {
		return m.MockDelete(actor, id, proof)
	}
	return policy.GrantOwner, nil
}

func (m *MockMediaService) Cover(_ context.Context, id domain.PhotoId) (io.ReadCloser, domain.BlobInfo, error) {
	if m.MockCover != nil {
		return m.MockCover(id)
	}
	return nil, domain.BlobInfo{}, nil
}

type MockActivityService struct {
	MockThreads       func(actor *domain.Actor) ([]domain.Thread, error)
	MockComments      func(actor *domain.Actor) ([]domain.ActivityRow, error)
	MockPhotos        func(actor *domain.Actor) ([]domain.Photo, error)
	MockDeleteThreads func(actor *domain.Actor, ids []domain.ThreadId) ([]service.DeleteResult, error)
}

func (m *MockActivityService) Threads(_ context.Context, actor *domain.Actor) ([]domain.Thread, error) {
	if m.MockThreads != nil {
		return m.MockThreads(actor)
	}
	return []domain.Thread{}, nil
}

func (m *MockActivityService) Comments(_ context.Context, actor *domain.Actor) ([]domain.ActivityRow, error) {
	if m.MockComments != nil {
		return m.MockComments(actor)
	}
	return []domain.ActivityRow{}, nil
}

func (m *MockActivityService) Photos(_ context.Context, actor *domain.Actor) ([]domain.Photo, error) {
	if m.MockPhotos != nil {
		return m.MockPhotos(actor)
	}
	return []domain.Photo{}, nil
}

func (m *MockActivityService) DeleteThreads(_ context.Context, actor *domain.Actor, ids []domain.ThreadId) ([]service.DeleteResult, error) {
	if m.MockDeleteThreads != nil {
		return m.MockDeleteThreads(actor, ids)
	}
	return []service.DeleteResult{}, nil
}
