package handler

import (
	"net/http"
	"testing"

	"github.com/apexcharge/paddock/shared/domain"
	"github.com/apexcharge/paddock/shared/errors"
	"github.com/stretchr/testify/assert"
)

func TestComments(t *testing.T) {
	type call struct {
		threadId, commentId, replyId, body string
		page                               int
	}
	var got call
	comments := &MockCommentService{
		MockListComments: func(threadId domain.ThreadId, page int) (domain.Page[domain.Comment], error) {
			got = call{threadId: threadId, page: page}
			return domain.Page[domain.Comment]{Items: []domain.Comment{}, Page: page, TotalPages: 3}, nil
		},
		MockEditComment: func(actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, body string) (domain.Comment, error) {
			got = call{threadId: threadId, commentId: commentId, body: body}
			return domain.Comment{Id: commentId, Body: body}, nil
		},
		MockDeleteComment: func(actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId) error {
			return errors.NotFound("comment", commentId)
		},
		MockListReplies: func(threadId domain.ThreadId, commentId domain.CommentId, page int) (domain.Page[domain.Reply], error) {
			got = call{threadId: threadId, commentId: commentId, page: page}
			return domain.Page[domain.Reply]{Items: []domain.Reply{}, Page: page}, nil
		},
		MockEditReply: func(actor *domain.Actor, threadId domain.ThreadId, commentId domain.CommentId, replyId domain.ReplyId, body string) (domain.Reply, error) {
			got = call{threadId: threadId, commentId: commentId, replyId: replyId, body: body}
			return domain.Reply{Id: replyId, Body: body}, nil
		},
	}
	router := setupTestRouter(newTestHandler(Services{Comments: comments}), member)

	t.Run("list comments", func(t *testing.T) {
		rr := serve(t, router, createRequest(t, http.MethodGet, "/v1/threads/t1/comments?page=2", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, call{threadId: "t1", page: 2}, got)
	})

	t.Run("add comment", func(t *testing.T) {
		rr := serve(t, router, createRequest(t, http.MethodPost, "/v1/threads/t1/comments", []byte(`{"body":"Box box"}`)))
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"body":"Box box"`)
	})

	t.Run("add empty comment", func(t *testing.T) {
		rr := serve(t, router, createRequest(t, http.MethodPost, "/v1/threads/t1/comments", []byte(`{"body":""}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("edit comment", func(t *testing.T) {
		rr := serve(t, router, createRequest(t, http.MethodPatch, "/v1/threads/t1/comments/c1", []byte(`{"body":"edited"}`)))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, call{threadId: "t1", commentId: "c1", body: "edited"}, got)
	})

	t.Run("delete missing comment", func(t *testing.T) {
		rr := serve(t, router, createRequest(t, http.MethodDelete, "/v1/threads/t1/comments/c9", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("list replies", func(t *testing.T) {
		rr := serve(t, router, createRequest(t, http.MethodGet, "/v1/threads/t1/comments/c1/replies", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, call{threadId: "t1", commentId: "c1", page: 1}, got)
	})

	t.Run("add reply", func(t *testing.T) {
		rr := serve(t, router, createRequest(t, http.MethodPost, "/v1/threads/t1/comments/c1/replies", []byte(`{"body":"copy"}`)))
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"commentId":"c1"`)
	})

	t.Run("edit reply", func(t *testing.T) {
		rr := serve(t, router, createRequest(t, http.MethodPatch, "/v1/threads/t1/comments/c1/replies/r1", []byte(`{"body":"fixed"}`)))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, call{threadId: "t1", commentId: "c1", replyId: "r1", body: "fixed"}, got)
	})

	t.Run("delete reply", func(t *testing.T) {
		rr := serve(t, router, createRequest(t, http.MethodDelete, "/v1/threads/t1/comments/c1/replies/r1", nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}
