package domain

import (
	"io"
	"time"
)

// PendingCover is an uploaded cover image that has not been stored yet.
type PendingCover struct {
	Filename  string
	MimeType  string
	SizeBytes int64
	Width     int
	Height    int
	Data      io.Reader
}

// BlobInfo describes a stored cover blob.
type BlobInfo struct {
	Id        string
	MimeType  string
	SizeBytes int64
	ModTime   time.Time
}
