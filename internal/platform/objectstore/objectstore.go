package objectstore

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/yungbote/hirebridge-backend/internal/platform/dbctx"
)

// Category names a logical bucket. Each backend maps categories to its own
// bucket names.
type Category string

const (
	// CategoryResume holds candidate uploads and is publicly readable.
	CategoryResume Category = "resume"
	// CategoryReplica holds frozen per-application copies and is private.
	CategoryReplica Category = "replica"
)

var (
	ErrBucketExists   = errors.New("bucket already exists")
	ErrObjectNotFound = errors.New("object not found")
	ErrUnknownBucket  = errors.New("unknown bucket category")
)

type BucketService interface {
	// EnsureBucket creates the category's bucket. It returns ErrBucketExists
	// when the bucket is already there.
	EnsureBucket(ctx context.Context, category Category) error
	// UploadFile writes key with upsert semantics.
	UploadFile(dbc dbctx.Context, category Category, key string, file io.Reader) error
	DeleteFile(dbc dbctx.Context, category Category, key string) error
	DownloadFile(ctx context.Context, category Category, key string) (io.ReadCloser, error)
	GetPublicURL(category Category, key string) string
}

func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch path.Ext(s) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return ""
	}
}

// LastSegment returns the final path element of a public object URL, with
// query string removed and percent escapes decoded.
func LastSegment(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return ""
	}
	if u, err := url.Parse(s); err == nil {
		p := u.EscapedPath()
		if unescaped, err := url.PathUnescape(p); err == nil {
			p = unescaped
		}
		s = p
	} else if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	return s
}
