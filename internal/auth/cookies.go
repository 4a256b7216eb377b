// Package auth turns raw TikTok cookie strings into browser cookie entries.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chromedp/cdproto/network"
)

// CookieDomain is the domain all session cookies are scoped to.
const CookieDomain = ".tiktok.com"

// ErrMalformedCredential is returned when the cookie string does not parse.
// A bad credential is a fatal bootstrap precondition, not a per-entry skip.
var ErrMalformedCredential = errors.New("auth: malformed cookie string")

// Cookie is a single named session cookie ready for browser injection.
type Cookie struct {
	Name  string
	Value string
}

// ParseCookieString parses a raw "k=v;k=v" cookie string into cookie entries.
// Every segment must split into exactly two non-empty trimmed parts on '='.
func ParseCookieString(raw string) ([]Cookie, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedCredential)
	}

	segments := strings.Split(raw, ";")
	cookies := make([]Cookie, 0, len(segments))
	for _, seg := range segments {
		name, value, ok := strings.Cut(seg, "=")
		if !ok {
			return nil, fmt.Errorf("%w: segment %q has no '='", ErrMalformedCredential, strings.TrimSpace(seg))
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			return nil, fmt.Errorf("%w: segment %q has an empty name or value", ErrMalformedCredential, strings.TrimSpace(seg))
		}
		cookies = append(cookies, Cookie{Name: name, Value: value})
	}

	return cookies, nil
}

// SetCookieParams converts parsed cookies into CDP SetCookie commands scoped
// to the TikTok domain.
func SetCookieParams(cookies []Cookie) []*network.SetCookieParams {
	params := make([]*network.SetCookieParams, 0, len(cookies))
	for _, c := range cookies {
		params = append(params, network.SetCookie(c.Name, c.Value).
			WithDomain(CookieDomain).
			WithPath("/").
			WithHTTPOnly(true).
			WithSecure(true))
	}
	return params
}

// LoadCookieFile reads a single-line cookie string from a local file.
func LoadCookieFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
