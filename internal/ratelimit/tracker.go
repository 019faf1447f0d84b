// Package ratelimit keeps the advisory quota snapshot reported by the upstream API.
package ratelimit

import (
	"net/http"
	"strings"
	"sync"

	"macromanager/internal/domain"
)

// Header names used by the api.data.gov gateway.
const (
	DefaultLimitHeader     = "X-RateLimit-Limit"
	DefaultRemainingHeader = "X-RateLimit-Remaining"
)

// Tracker records the most recent limit and remaining values. It does not
// throttle anything. Safe for concurrent use; the last Observe wins.
type Tracker struct {
	limitHeader     string
	remainingHeader string

	mu    sync.RWMutex
	quota domain.Quota
}

// NewTracker reads the given header names; blank names fall back to the defaults.
func NewTracker(limitHeader, remainingHeader string) *Tracker {
	if strings.TrimSpace(limitHeader) == "" {
		limitHeader = DefaultLimitHeader
	}
	if strings.TrimSpace(remainingHeader) == "" {
		remainingHeader = DefaultRemainingHeader
	}
	return &Tracker{limitHeader: limitHeader, remainingHeader: remainingHeader}
}

// Observe copies the quota headers present in h. Absent headers keep their previous value.
func (t *Tracker) Observe(h http.Header) {
	if t == nil || h == nil {
		return
	}

	limit, hasLimit := lookup(h, t.limitHeader)
	remaining, hasRemaining := lookup(h, t.remainingHeader)
	if !hasLimit && !hasRemaining {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if hasLimit {
		t.quota.Limit = limit
	}
	if hasRemaining {
		t.quota.Remaining = remaining
	}
}

// Snapshot returns the current quota values.
func (t *Tracker) Snapshot() domain.Quota {
	if t == nil {
		return domain.Quota{}
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.quota
}

func lookup(h http.Header, name string) (string, bool) {
	values := h.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}
