package factorial

import (
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"
)

// SavedCookie is the serialized form of one session cookie.
type SavedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain,omitempty"`
	Path     string    `json:"path,omitempty"`
	Expires  time.Time `json:"expires"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"http_only,omitempty"`
}

// Jar is a serializable cookie jar for a client that talks to a single
// vendor origin. It implements http.CookieJar. Domain and path are recorded
// in the session file but not used for request matching, since every
// request goes to the same host.
type Jar struct {
	mu      sync.Mutex
	cookies map[string]SavedCookie
}

// NewJar returns an empty jar.
func NewJar() *Jar {
	return &Jar{cookies: make(map[string]SavedCookie)}
}

// SetCookies records the cookies of one response. Deletions (negative
// MaxAge or an expiry in the past) remove the cookie.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	for _, c := range cookies {
		if c.Name == "" {
			continue
		}
		if c.MaxAge < 0 {
			delete(j.cookies, c.Name)
			continue
		}
		expires := c.Expires
		if c.MaxAge > 0 {
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if !expires.IsZero() && expires.Before(now) {
			delete(j.cookies, c.Name)
			continue
		}
		domain := c.Domain
		if domain == "" && u != nil {
			domain = u.Hostname()
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		j.cookies[c.Name] = SavedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   domain,
			Path:     path,
			Expires:  expires,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
		}
	}
}

// Cookies returns the live cookies for a request, dropping any that have
// expired since they were stored.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	out := make([]*http.Cookie, 0, len(j.cookies))
	for name, c := range j.cookies {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			delete(j.cookies, name)
			continue
		}
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Name < out[k].Name })
	return out
}

// Snapshot returns the jar contents for persistence, sorted by name.
func (j *Jar) Snapshot() []SavedCookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]SavedCookie, 0, len(j.cookies))
	for _, c := range j.cookies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Name < out[k].Name })
	return out
}

// Restore replaces the jar contents with previously saved cookies,
// skipping any that expired while on disk.
func (j *Jar) Restore(cookies []SavedCookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	j.cookies = make(map[string]SavedCookie, len(cookies))
	for _, c := range cookies {
		if c.Name == "" {
			continue
		}
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		j.cookies[c.Name] = c
	}
}

// Reset empties the jar.
func (j *Jar) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies = make(map[string]SavedCookie)
}

// Len reports how many cookies the jar holds.
func (j *Jar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.cookies)
}
