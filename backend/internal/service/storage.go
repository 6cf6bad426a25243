package service

import (
	"context"

	"github.com/apexcharge/paddock/shared/domain"
	"github.com/apexcharge/paddock/shared/middleware/metrics"
)

// ForumStorage is the slice of the record layer the forum services need.
// Reads never fail. An update fails only when fn does, and then nothing is written.
type ForumStorage interface {
	Threads(ctx context.Context) []domain.Thread
	UpdateThreads(ctx context.Context, fn func([]domain.Thread) ([]domain.Thread, error)) error
	Replies(ctx context.Context) domain.ReplyIndex
	UpdateReplies(ctx context.Context, fn func(domain.ReplyIndex) (domain.ReplyIndex, error)) error
	ThreadVotes(ctx context.Context) domain.VoteLedger
	UpdateThreadVotes(ctx context.Context, fn func(domain.VoteLedger) (domain.VoteLedger, error)) error
}

type PhotoStorage interface {
	Photos(ctx context.Context) []domain.Photo
	UpdatePhotos(ctx context.Context, fn func([]domain.Photo) ([]domain.Photo, error)) error
	PhotoVotes(ctx context.Context) domain.VoteLedger
	UpdatePhotoVotes(ctx context.Context, fn func(domain.VoteLedger) (domain.VoteLedger, error)) error
}

func countWrite(entity, action string) {
	metrics.ContentWrites.WithLabelValues(entity, action).Inc()
}

func threadIndex(threads []domain.Thread, id domain.ThreadId) int {
	for i := range threads {
		if threads[i].Id == id {
			return i
		}
	}
	return -1
}

func photoIndex(photos []domain.Photo, id domain.PhotoId) int {
	for i := range photos {
		if photos[i].Id == id {
			return i
		}
	}
	return -1
}

// clampAdd adds delta to n without going below zero.
func clampAdd(n, delta int64) int64 {
	return max(0, n+delta)
}
