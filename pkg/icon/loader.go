package icon

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/lmfdb/latticeview/pkg/errors"
	"github.com/lmfdb/latticeview/pkg/httputil"
)

// Loader resolves an icon reference to a decoded image.
type Loader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, ref string) (image.Image, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, ref string) (image.Image, error) { return f(ctx, ref) }

// URLLoader loads icons from data URIs, HTTP(S) and the filesystem.
type URLLoader struct {
	// Client fetches http and https references. Nil disables remote icons.
	Client *httputil.Client
	// Base resolves relative references. It may be a directory or an
	// http(s) URL.
	Base string
	// Scale resizes decoded icons; 0 and 1 leave them untouched.
	Scale float64
}

// Load implements Loader.
func (l *URLLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	data, err := l.read(ctx, ref)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode icon %s", shorten(ref))
	}
	return Scale(img, l.Scale), nil
}

func (l *URLLoader) read(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURI(ref)
	case isRemote(ref):
		return l.fetch(ctx, ref)
	case isRemote(l.Base):
		base, err := url.Parse(l.Base)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "icon base %q", l.Base)
		}
		rel, err := url.Parse(ref)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "icon ref %q", ref)
		}
		return l.fetch(ctx, base.ResolveReference(rel).String())
	default:
		path := ref
		if l.Base != "" && !filepath.IsAbs(ref) {
			path = filepath.Join(l.Base, ref)
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "icon %s not found", path)
		}
		return data, err
	}
}

func (l *URLLoader) fetch(ctx context.Context, u string) ([]byte, error) {
	if l.Client == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "remote icon %s: no http client", u)
	}
	return l.Client.Cached(ctx, u, false, func() ([]byte, error) {
		return l.Client.Get(ctx, "icon", u)
	})
}

// Scale resizes img by factor. Factors of 0 or 1 return img unchanged.
func Scale(img image.Image, factor float64) image.Image {
	if factor <= 0 || factor == 1 {
		return img
	}
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*factor+0.5))
	h := max(1, int(float64(b.Dy())*factor+0.5))
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

func decodeDataURI(ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "malformed data uri")
	}
	if !strings.HasSuffix(meta, ";base64") {
		s, err := url.PathUnescape(payload)
		return []byte(s), err
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "data uri payload")
	}
	return data, nil
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func shorten(ref string) string {
	if len(ref) > 48 {
		return ref[:48] + "..."
	}
	return ref
}
