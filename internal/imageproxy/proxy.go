// Package imageproxy serves remote product images from our own origin, resized
// for the catalog grid. Only URLs signed by Sign are fetched.
package imageproxy

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/nfnt/resize"
)

const (
	maxSourceBytes = 10 << 20 // 10MB
	// A small compressed file can declare huge dimensions, so the header is
	// checked before any pixels are allocated.
	maxSourcePixels = 40_000_000
)

type Proxy struct {
	key       []byte
	maxWidth  uint
	maxPixels int64
	client    *http.Client
}

func New(key []byte, maxWidth uint, timeout time.Duration) *Proxy {
	return &Proxy{
		key:       key,
		maxWidth:  maxWidth,
		maxPixels: maxSourcePixels,
		client:    &http.Client{Timeout: timeout},
	}
}

// URL returns the local path serving src. Empty src gives an empty string.
func (p *Proxy) URL(src string) string {
	if src == "" {
		return ""
	}
	q := url.Values{}
	q.Set("u", src)
	q.Set("s", p.Sign(src))
	return "/img?" + q.Encode()
}

func (p *Proxy) Sign(src string) string {
	mac := hmac.New(sha256.New, p.key)
	mac.Write([]byte(src))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (p *Proxy) Verify(src, sig string) bool {
	want := p.Sign(src)
	return hmac.Equal([]byte(want), []byte(sig))
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	src := r.URL.Query().Get("u")
	if src == "" || !p.Verify(src, r.URL.Query().Get("s")) {
		http.NotFound(w, r)
		return
	}
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		http.NotFound(w, r)
		return
	}

	img, err := p.fetch(r, src)
	if err != nil {
		slog.Warn("Image fetch failed", "src", src, "error", err)
		http.Error(w, "Image unavailable", http.StatusBadGateway)
		return
	}

	if uint(img.Bounds().Dx()) > p.maxWidth {
		img = resize.Resize(p.maxWidth, 0, img, resize.Lanczos3)
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: 80}); err != nil {
		slog.Error("Error encoding image", "src", src, "error", err)
	}
}

func (p *Proxy) fetch(r *http.Request, src string) (image.Image, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	buf, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > p.maxPixels {
		return nil, fmt.Errorf("image too large: %dx%d", cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}
