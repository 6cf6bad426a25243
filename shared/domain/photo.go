package domain

import "time"

type Photo struct {
	Id                  PhotoId   `json:"id"`
	Gp                  string    `json:"gp"`
	Round               int       `json:"round"`
	Country             string    `json:"country"`
	Circuit             string    `json:"circuit,omitempty"`
	Session             Session   `json:"session"`
	DateISO             string    `json:"dateISO"`
	CoverUrl            string    `json:"coverUrl"`
	Tags                []string  `json:"tags"`
	CreatedAt           time.Time `json:"createdAt"`
	ViewCount           int64     `json:"viewCount"`
	LikeCount           int64     `json:"likeCount"`
	DislikeCount        int64     `json:"dislikeCount"`
	UploaderDisplayName string    `json:"uploaderDisplayName,omitempty"`
	UploaderEmail       string    `json:"uploaderEmail,omitempty"`
	DeleteSecretHash    string    `json:"deleteSecretHash,omitempty"`
}

// GuestProtected reports whether a guest may delete the photo with a password.
func (p *Photo) GuestProtected() bool {
	return p.DeleteSecretHash != ""
}

// PhotoUpload is the validated payload of an upload, before id/counters are assigned.
type PhotoUpload struct {
	Gp       string
	Round    int
	Country  string
	Circuit  string
	Session  Session
	DateISO  string
	CoverUrl string
	Tags     []string
	Cover    *PendingCover
}

type PhotoQuery struct {
	Session Session
	Search  string
	Page    int
}
