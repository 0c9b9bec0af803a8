package webdav

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/studio-b12/gowebdav"
)

// ICollection is the part of a gowebdav client a session needs, one handle
// addresses one collection url.
type ICollection interface {
	ReadDir(path string) ([]os.FileInfo, error)
	Stat(path string) (os.FileInfo, error)
	ReadStream(path string) (io.ReadCloser, error)
	WriteStream(path string, stream io.Reader, mode os.FileMode) error
	Mkdir(path string, mode os.FileMode) error
	Remove(path string) error
}

type CollectionFactory func(link string, tr http.RoundTripper, az gowebdav.Authorizer) (ICollection, error)

func checkCollectionURL(link string) error {
	u, err := url.Parse(link)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported url schema:%s", u.Scheme)
	}
	if len(u.Host) == 0 {
		return fmt.Errorf("no host found in url:%s", link)
	}
	return nil
}

func defaultCollectionFactory(link string, tr http.RoundTripper, az gowebdav.Authorizer) (ICollection, error) {
	if err := checkCollectionURL(link); err != nil {
		return nil, err
	}
	cli := gowebdav.NewAuthClient(link, az)
	cli.SetTransport(tr)
	return cli, nil
}

func joinCollectionURL(base string, p string) string {
	if len(p) == 0 || p == "/" {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(p, "/")
}
