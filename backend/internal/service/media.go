package service

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/apexcharge/paddock/backend/internal/policy"
	"github.com/apexcharge/paddock/backend/internal/service/utils"
	"github.com/apexcharge/paddock/shared/config"
	"github.com/apexcharge/paddock/shared/domain"
	"github.com/apexcharge/paddock/shared/errors"
	"github.com/apexcharge/paddock/shared/logger"
	sharedutils "github.com/apexcharge/paddock/shared/utils"
	"github.com/google/uuid"
)

const (
	minGuestPasswordRunes = 4
	guestDisplayName      = "guest"

	// Upper bound on width*height*4 of a decoded cover.
	maxDecodedCoverSize = 64 << 20
)

type MediaService interface {
	List(ctx context.Context, q domain.PhotoQuery) domain.Page[domain.Photo]
	Get(ctx context.Context, id domain.PhotoId) (domain.Photo, error)
	Upload(ctx context.Context, actor *domain.Actor, in domain.PhotoUpload, deletePassword string) (domain.Photo, error)
	BumpView(ctx context.Context, id domain.PhotoId) (domain.Photo, error)
	Like(ctx context.Context, id domain.PhotoId, delta int) (domain.Photo, error)
	Vote(ctx context.Context, actor *domain.Actor, id domain.PhotoId, kind domain.VoteKind) (domain.VoteResult, error)
	GetVote(ctx context.Context, actor *domain.Actor, id domain.PhotoId) domain.VoteState
	Delete(ctx context.Context, actor *domain.Actor, id domain.PhotoId, proof string) (policy.Grant, error)
	Cover(ctx context.Context, id domain.PhotoId) (io.ReadCloser, domain.BlobInfo, error)
}

type Media struct {
	storage PhotoStorage
	blobs   BlobStore
	cfg     *config.Public
	now     func() time.Time
	newID   func() string

	// Replaced by cheap fakes in tests.
	hash  func(string) (string, error)
	check policy.SecretChecker
}

func NewMedia(storage PhotoStorage, blobs BlobStore, cfg *config.Public) *Media {
	return &Media{
		storage: storage,
		blobs:   blobs,
		cfg:     cfg,
		now:     time.Now,
		newID:   uuid.NewString,
		hash:    sharedutils.HashDeleteSecret,
		check:   sharedutils.CheckDeleteSecret,
	}
}

func CoverPath(id domain.PhotoId) string {
	return fmt.Sprintf("/v1/photos/%s/cover", id)
}

func photoMatches(p *domain.Photo, needle string) bool {
	return strings.Contains(strings.ToLower(p.Gp+" "+p.Circuit), needle)
}

func sortPhotos(photos []domain.Photo) {
	slices.SortStableFunc(photos, func(a, b domain.Photo) int {
		if c := strings.Compare(b.DateISO, a.DateISO); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// List is the gallery: newest race date first, filtered by session and a
// case-insensitive search over grand prix and circuit.
func (s *Media) List(ctx context.Context, q domain.PhotoQuery) domain.Page[domain.Photo] {
	photos := s.storage.Photos(ctx)
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	filtered := photos[:0]
	for i := range photos {
		if q.Session != "" && photos[i].Session != q.Session {
			continue
		}
		if needle != "" && !photoMatches(&photos[i], needle) {
			continue
		}
		filtered = append(filtered, photos[i])
	}
	sortPhotos(filtered)
	return domain.Paginate(filtered, q.Page, s.cfg.PhotosPerPage)
}

func (s *Media) Get(ctx context.Context, id domain.PhotoId) (domain.Photo, error) {
	photos := s.storage.Photos(ctx)
	i := photoIndex(photos, id)
	if i < 0 {
		return domain.Photo{}, errors.NotFound("photo", id)
	}
	return photos[i], nil
}

func cleanTags(tags []string) []string {
	out := []string{}
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (s *Media) validateUpload(actor *domain.Actor, in *domain.PhotoUpload, password string) error {
	in.Gp = strings.TrimSpace(in.Gp)
	in.CoverUrl = strings.TrimSpace(in.CoverUrl)
	if in.Gp == "" {
		return errors.Validation("grand prix is required")
	}
	if in.CoverUrl == "" && in.Cover == nil {
		return errors.Validation("a cover image is required")
	}
	if in.Round < 0 {
		return errors.Validation("round must not be negative")
	}
	if in.Session == "" {
		in.Session = domain.SessionRace
	}
	if !in.Session.Valid() {
		return errors.Validation("unknown session %q", in.Session)
	}
	if in.DateISO == "" {
		in.DateISO = s.now().UTC().Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, in.DateISO); err != nil {
		return errors.Validation("date must be YYYY-MM-DD")
	}
	if actor == nil && utf8.RuneCountInString(password) < minGuestPasswordRunes {
		return errors.Validation("guest password must be at least %d characters", minGuestPasswordRunes)
	}
	if actor == nil && len(password) > sharedutils.MaxDeleteSecretBytes {
		return errors.Validation("guest password must be at most %d bytes", sharedutils.MaxDeleteSecretBytes)
	}
	return nil
}

// Upload stores a new photo. Guests protect it with a delete password,
// signed-in uploaders are recorded by email. The cover blob is saved before
// the record so a listed photo always has its cover.
func (s *Media) Upload(ctx context.Context, actor *domain.Actor, in domain.PhotoUpload, deletePassword string) (domain.Photo, error) {
	password := strings.TrimSpace(deletePassword)
	if err := s.validateUpload(actor, &in, password); err != nil {
		return domain.Photo{}, err
	}

	p := domain.Photo{
		Id:        s.newID(),
		Gp:        in.Gp,
		Round:     in.Round,
		Country:   strings.TrimSpace(in.Country),
		Circuit:   strings.TrimSpace(in.Circuit),
		Session:   in.Session,
		DateISO:   in.DateISO,
		CoverUrl:  in.CoverUrl,
		Tags:      cleanTags(in.Tags),
		CreatedAt: s.now().UTC(),
	}
	if actor == nil {
		hash, err := s.hash(password)
		if err != nil {
			return domain.Photo{}, err
		}
		p.DeleteSecretHash = hash
		p.UploaderDisplayName = guestDisplayName
	} else {
		p.UploaderEmail = strings.ToLower(strings.TrimSpace(actor.Email))
		p.UploaderDisplayName = actor.DisplayName()
	}

	if in.Cover != nil {
		cover, err := utils.DecodeCover(in.Cover, maxDecodedCoverSize)
		if err != nil {
			return domain.Photo{}, errors.Validation("cover: %v", err)
		}
		if !slices.Contains(s.cfg.AllowedImageMimeTypes, cover.MimeType) {
			return domain.Photo{}, errors.Validation("cover type %s is not allowed", cover.MimeType)
		}
		if _, err := s.blobs.Save(ctx, p.Id, cover.MimeType, cover.Data); err != nil {
			return domain.Photo{}, fmt.Errorf("failed to save cover: %w", err)
		}
		if p.CoverUrl == "" {
			p.CoverUrl = CoverPath(p.Id)
		}
	}

	err := s.storage.UpdatePhotos(ctx, func(photos []domain.Photo) ([]domain.Photo, error) {
		return append([]domain.Photo{p}, photos...), nil
	})
	if err != nil {
		return domain.Photo{}, err
	}
	countWrite("photo", "create")
	return p, nil
}

func (s *Media) updatePhoto(ctx context.Context, id domain.PhotoId, fn func(p *domain.Photo)) (domain.Photo, error) {
	var updated domain.Photo
	err := s.storage.UpdatePhotos(ctx, func(photos []domain.Photo) ([]domain.Photo, error) {
		i := photoIndex(photos, id)
		if i < 0 {
			return nil, errors.NotFound("photo", id)
		}
		fn(&photos[i])
		updated = photos[i]
		return photos, nil
	})
	return updated, err
}

func (s *Media) BumpView(ctx context.Context, id domain.PhotoId) (domain.Photo, error) {
	return s.updatePhoto(ctx, id, func(p *domain.Photo) {
		p.ViewCount++
	})
}

// Like is the anonymous heart of the gallery. It moves the same likeCount as
// ledger likes but leaves no ledger entry, so likeCount is at least the number
// of ledger likes rather than equal to it.
func (s *Media) Like(ctx context.Context, id domain.PhotoId, delta int) (domain.Photo, error) {
	if delta != 1 && delta != -1 {
		return domain.Photo{}, errors.Validation("like delta must be 1 or -1")
	}
	return s.updatePhoto(ctx, id, func(p *domain.Photo) {
		p.LikeCount = clampAdd(p.LikeCount, int64(delta))
	})
}

// Vote toggles a signed-in actor's like or dislike on a photo. As for
// threads, the counters are written under the ledger lock.
func (s *Media) Vote(ctx context.Context, actor *domain.Actor, id domain.PhotoId, kind domain.VoteKind) (domain.VoteResult, error) {
	if err := validateVote(actor, kind); err != nil {
		return domain.VoteResult{}, err
	}

	var result domain.VoteResult
	err := s.storage.UpdatePhotoVotes(ctx, func(ledger domain.VoteLedger) (domain.VoteLedger, error) {
		state, likeDelta, dislikeDelta := castVote(ledger, policy.Identity(actor), id, kind)
		p, err := s.updatePhoto(ctx, id, func(p *domain.Photo) {
			p.LikeCount = clampAdd(p.LikeCount, likeDelta)
			p.DislikeCount = clampAdd(p.DislikeCount, dislikeDelta)
		})
		if err != nil {
			return nil, err
		}
		result = domain.VoteResult{State: state, LikeCount: p.LikeCount, DislikeCount: p.DislikeCount}
		return ledger, nil
	})
	if err != nil {
		return domain.VoteResult{}, err
	}
	countWrite("vote", string(kind))
	return result, nil
}

func (s *Media) GetVote(ctx context.Context, actor *domain.Actor, id domain.PhotoId) domain.VoteState {
	who := policy.Identity(actor)
	if who == "" {
		return domain.VoteState{}
	}
	return s.storage.PhotoVotes(ctx)[who][id]
}

// Delete runs the delete policy and removes the photo, its votes and its
// cover. The password check happens before any lock is taken.
func (s *Media) Delete(ctx context.Context, actor *domain.Actor, id domain.PhotoId, proof string) (policy.Grant, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	grant, err := policy.AuthorizePhotoDelete(actor, &p, strings.TrimSpace(proof), s.check)
	if err != nil {
		return "", err
	}

	err = s.storage.UpdatePhotos(ctx, func(photos []domain.Photo) ([]domain.Photo, error) {
		i := photoIndex(photos, id)
		if i < 0 {
			return nil, errors.NotFound("photo", id)
		}
		return slices.Delete(photos, i, i+1), nil
	})
	if err != nil {
		return "", err
	}
	countWrite("photo", "delete")

	_ = s.storage.UpdatePhotoVotes(ctx, func(ledger domain.VoteLedger) (domain.VoteLedger, error) {
		forgetTarget(ledger, id)
		return ledger, nil
	})
	if err := s.blobs.Delete(ctx, id); err != nil {
		// The collector removes it later.
		logger.Log.Warn("failed to delete cover", "component", "media", "photo", id, "error", err)
	}
	return grant, nil
}

func (s *Media) Cover(ctx context.Context, id domain.PhotoId) (io.ReadCloser, domain.BlobInfo, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, domain.BlobInfo{}, err
	}
	return s.blobs.Open(ctx, id)
}
