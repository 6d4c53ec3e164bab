// Package resolver turns submitted links into display titles.
//
// Resolution is strictly best-effort: one bounded-time GET, a capped body
// read, and a scan for the document's <title> element. Every failure mode
// (timeout, bad status, unparseable markup, empty title) degrades to the link
// itself, so callers never see an error and queue mutation never waits on the
// network longer than the configured deadline.
package resolver

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"turntable/internal/config"
	"turntable/internal/logging"
)

// Resolver fetches page titles with a fixed per-request deadline.
type Resolver struct {
	client    *http.Client
	timeout   time.Duration
	maxBody   int64
	userAgent string
	logger    *slog.Logger
}

// New builds a resolver from application config.
func New(cfg *config.Config, logger *slog.Logger) *Resolver {
	timeout := time.Duration(cfg.Resolver.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	maxBody := int64(cfg.Resolver.MaxBodyKiB) * 1024
	if maxBody <= 0 {
		maxBody = 256 * 1024
	}
	return &Resolver{
		client:    &http.Client{Timeout: timeout},
		timeout:   timeout,
		maxBody:   maxBody,
		userAgent: cfg.Resolver.UserAgent,
		logger:    logging.NewComponentLogger(logger, "resolver"),
	}
}

// Resolve fetches link and returns its page title, or the link itself on any
// failure. It never returns an error past this boundary.
func (r *Resolver) Resolve(ctx context.Context, link string) string {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		r.logger.Debug("title request build failed",
			logging.String(logging.FieldLink, link), logging.Error(err))
		return link
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("title fetch failed",
			logging.String(logging.FieldLink, link), logging.Error(err))
		return link
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.logger.Debug("title fetch returned non-success status",
			logging.String(logging.FieldLink, link), logging.Int("status", resp.StatusCode))
		return link
	}

	body := io.LimitReader(resp.Body, r.maxBody)
	reader := decodeCharset(body, resp.Header.Get("Content-Type"))

	title, ok := extractTitle(reader)
	if !ok || title == "" {
		r.logger.Debug("no title found", logging.String(logging.FieldLink, link))
		return link
	}
	return title
}

// decodeCharset wraps body with a decoder for the charset declared in the
// Content-Type header. Unknown or absent charsets pass through untouched.
func decodeCharset(body io.Reader, contentType string) io.Reader {
	if contentType == "" {
		return body
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body
	}
	name := strings.TrimSpace(params["charset"])
	if name == "" || strings.EqualFold(name, "utf-8") {
		return body
	}
	encoding, err := htmlindex.Get(name)
	if err != nil || encoding == nil {
		return body
	}
	return transform.NewReader(body, encoding.NewDecoder())
}

// extractTitle scans the token stream for the first <title> element's text.
func extractTitle(r io.Reader) (string, bool) {
	tokenizer := html.NewTokenizer(r)
	inTitle := false
	var title strings.Builder

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				title.Write(tokenizer.Text())
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "title" {
				return collapseWhitespace(title.String()), true
			}
		}
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
