package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/apexcharge/paddock/backend/internal/policy"
	"github.com/apexcharge/paddock/shared/domain"
	internal_errors "github.com/apexcharge/paddock/shared/errors"
	mw "github.com/apexcharge/paddock/shared/middleware"
	"github.com/apexcharge/paddock/shared/utils"
	"github.com/apexcharge/paddock/shared/validation"
	"github.com/go-chi/chi/v5"
)

type uploadPhotoRequest struct {
	Gp             string         `json:"gp"`
	Round          int            `json:"round"`
	Country        string         `json:"country"`
	Circuit        string         `json:"circuit"`
	Session        domain.Session `json:"session"`
	DateISO        string         `json:"dateISO"`
	CoverUrl       string         `json:"coverUrl"`
	Tags           []string       `json:"tags"`
	DeletePassword string         `json:"deletePassword"`
}

type deletePhotoRequest struct {
	Password string `json:"password"`
}

type likeRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// photoResponse never carries the delete secret hash; clients only learn
// whether the photo can be deleted with a guest password.
type photoResponse struct {
	domain.Photo
	GuestProtected bool `json:"guestProtected"`
}

func toPhotoResponse(p domain.Photo) photoResponse {
	resp := photoResponse{Photo: p, GuestProtected: p.GuestProtected()}
	resp.DeleteSecretHash = ""
	return resp
}

func toPhotoResponses(photos []domain.Photo) []photoResponse {
	out := make([]photoResponse, len(photos))
	for i, p := range photos {
		out[i] = toPhotoResponse(p)
	}
	return out
}

func (h *Handler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := h.media.List(r.Context(), domain.PhotoQuery{
		Session: domain.Session(q.Get("session")),
		Search:  q.Get("q"),
		Page:    pageParam(r),
	})
	writeJSON(w, domain.Page[photoResponse]{
		Items:      toPhotoResponses(page.Items),
		Page:       page.Page,
		TotalPages: page.TotalPages,
		TotalItems: page.TotalItems,
	})
}

func (h *Handler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	photo, err := h.media.Get(r.Context(), chi.URLParam(r, "photo"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, toPhotoResponse(photo))
}

// parseUpload reads either a JSON body or a multipart form with the JSON in
// the "json" field and an optional "cover" file.
func (h *Handler) parseUpload(w http.ResponseWriter, r *http.Request) (body uploadPhotoRequest, cover *domain.PendingCover, cleanup func(), err error) {
	cleanup = func() {}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = utils.Decode(r.Body, &body)
		return
	}

	maxRequestSize := validation.CalculateMaxRequestSize(h.cfg.Public.MaxCoverSize, 1<<20)
	if err = validation.ValidateAndParseMultipart(r, w, maxRequestSize); err != nil {
		err = fmt.Errorf("%w: the cover may be at most %.0f MB", validation.ErrPayloadTooLarge, validation.FormatSizeMB(h.cfg.Public.MaxCoverSize))
		return
	}

	jsonPayload := r.FormValue("json")
	if jsonPayload == "" {
		err = internal_errors.Validation("missing JSON payload in multipart form")
		return
	}
	if err = utils.Decode(io.NopCloser(strings.NewReader(jsonPayload)), &body); err != nil {
		return
	}

	files := r.MultipartForm.File["cover"]
	if len(files) == 0 {
		return
	}
	cover, file, err := validation.ValidateCover(files[0], h.cfg.Public.AllowedImageMimeTypes, h.cfg.Public.MaxCoverSize)
	if err != nil {
		return
	}
	cleanup = func() { file.Close() }
	return
}

func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	body, cover, cleanup, err := h.parseUpload(w, r)
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrPayloadTooLarge), errors.Is(err, validation.ErrCoverTooLarge):
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		case errors.Is(err, validation.ErrInvalidMimeType):
			http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		default:
			utils.WriteErrorAndStatusCode(w, err)
		}
		return
	}
	defer cleanup()

	photo, err := h.media.Upload(r.Context(), mw.GetActorFromContext(r), domain.PhotoUpload{
		Gp:       body.Gp,
		Round:    body.Round,
		Country:  body.Country,
		Circuit:  body.Circuit,
		Session:  body.Session,
		DateISO:  body.DateISO,
		CoverUrl: body.CoverUrl,
		Tags:     body.Tags,
		Cover:    cover,
	}, body.DeletePassword)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, toPhotoResponse(photo))
}

func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	var body deletePhotoRequest
	// The body is optional: members and admins send none.
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Body is invalid json", http.StatusBadRequest)
		return
	}

	grant, err := h.media.Delete(r.Context(), mw.GetActorFromContext(r), chi.URLParam(r, "photo"), body.Password)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, struct {
		Deleted bool         `json:"deleted"`
		Grant   policy.Grant `json:"grant"`
	}{true, grant})
}

func (h *Handler) GetCover(w http.ResponseWriter, r *http.Request) {
	rc, info, err := h.media.Cover(r.Context(), chi.URLParam(r, "photo"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", info.MimeType)
	if info.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.SizeBytes, 10))
	}
	// Photo ids are never reused, so a cover never changes.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, rc)
}

func (h *Handler) ViewPhoto(w http.ResponseWriter, r *http.Request) {
	photo, err := h.media.BumpView(r.Context(), chi.URLParam(r, "photo"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, map[string]int64{"viewCount": photo.ViewCount})
}

func (h *Handler) LikePhoto(w http.ResponseWriter, r *http.Request) {
	var body likeRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	photo, err := h.media.Like(r.Context(), chi.URLParam(r, "photo"), body.Delta)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, map[string]int64{"likeCount": photo.LikeCount})
}

func (h *Handler) GetPhotoVote(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.media.GetVote(r.Context(), mw.GetActorFromContext(r), chi.URLParam(r, "photo")))
}

func (h *Handler) VotePhoto(w http.ResponseWriter, r *http.Request) {
	var body voteRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	result, err := h.media.Vote(r.Context(), mw.GetActorFromContext(r), chi.URLParam(r, "photo"), body.Kind)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, result)
}
