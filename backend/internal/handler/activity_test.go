package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/apexcharge/paddock/backend/internal/service"
	"github.com/apexcharge/paddock/shared/domain"
	"github.com/apexcharge/paddock/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMyActivity(t *testing.T) {
	activity := &MockActivityService{
		MockThreads: func(actor *domain.Actor) ([]domain.Thread, error) {
			return []domain.Thread{{Id: "t1", AuthorId: actor.Email}}, nil
		},
		MockComments: func(actor *domain.Actor) ([]domain.ActivityRow, error) {
			return []domain.ActivityRow{{Kind: domain.ActivityReply, Id: "r1", ParentCommentId: "c1"}}, nil
		},
		MockPhotos: func(actor *domain.Actor) ([]domain.Photo, error) {
			return []domain.Photo{{Id: "p1", UploaderEmail: actor.Email, DeleteSecretHash: "leftover"}}, nil
		},
	}
	router := setupTestRouter(newTestHandler(Services{Activity: activity}), member)

	rr := serve(t, router, createRequest(t, http.MethodGet, "/v1/me/threads", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"authorId":"lando@apex.dev"`)

	rr = serve(t, router, createRequest(t, http.MethodGet, "/v1/me/comments", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"parentCommentId":"c1"`)

	rr = serve(t, router, createRequest(t, http.MethodGet, "/v1/me/photos", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "leftover")
}

func TestMyActivityAnonymous(t *testing.T) {
	activity := &MockActivityService{MockThreads: func(actor *domain.Actor) ([]domain.Thread, error) {
		return nil, errors.ErrLoginRequired
	}}
	router := setupTestRouter(newTestHandler(Services{Activity: activity}), nil)

	rr := serve(t, router, createRequest(t, http.MethodGet, "/v1/me/threads", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestDeleteMyThreads(t *testing.T) {
	activity := &MockActivityService{MockDeleteThreads: func(actor *domain.Actor, ids []domain.ThreadId) ([]service.DeleteResult, error) {
		out := make([]service.DeleteResult, len(ids))
		for i, id := range ids {
			out[i] = service.DeleteResult{Id: id, Deleted: id != "t2"}
			if id == "t2" {
				out[i].Error = "forbidden: only the author or an admin can delete this thread"
			}
		}
		return out, nil
	}}
	router := setupTestRouter(newTestHandler(Services{Activity: activity}), member)

	rr := serve(t, router, createRequest(t, http.MethodPost, "/v1/me/threads/delete", []byte(`{"ids":["t1","t2"]}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	var results []service.DeleteResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.True(t, results[0].Deleted)
	assert.False(t, results[1].Deleted)
	assert.Contains(t, results[1].Error, "forbidden")

	for _, body := range []string{`{"ids":[]}`, `{}`, `{"ids":[""]}`} {
		rr = serve(t, router, createRequest(t, http.MethodPost, "/v1/me/threads/delete", []byte(body)))
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
}
