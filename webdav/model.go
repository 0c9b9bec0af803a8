package webdav

import (
	"os"
	"time"
)

type State int

const (
	StateUnauthenticated State = iota
	StateProbing
	StateAuthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateProbing:
		return "probing"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Resource struct {
	Name         string
	Path         string
	Size         int64
	ContentType  string
	ETag         string
	ModTime      time.Time
	IsCollection bool
}

func convertFileInfo(fi os.FileInfo) *Resource {
	rs := &Resource{
		Name:         fi.Name(),
		Size:         fi.Size(),
		ModTime:      fi.ModTime(),
		IsCollection: fi.IsDir(),
	}
	if v, ok := fi.(interface{ Path() string }); ok {
		rs.Path = v.Path()
	}
	if v, ok := fi.(interface{ ContentType() string }); ok {
		rs.ContentType = v.ContentType()
	}
	if v, ok := fi.(interface{ ETag() string }); ok {
		rs.ETag = v.ETag()
	}
	return rs
}
