package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// flashPrefix namespaces flash queues in Valkey, keyed by session ID.
const flashPrefix = "flash:"

// flashTTL bounds how long unread flashes survive. Normally they are
// consumed on the next page render.
const flashTTL = 10 * time.Minute

// Flash is a one-time notification queued for the next page render.
// Kind is "success" or "error".
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// AddFlash queues a flash message for the request's session. Requests
// without a session cookie drop the message silently.
func (s *Store) AddFlash(ctx context.Context, r *http.Request, kind, message string) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	payload, err := json.Marshal(Flash{Kind: kind, Message: message})
	if err != nil {
		return fmt.Errorf("flash marshal: %w", err)
	}

	key := flashPrefix + cookie.Value
	if err := s.client.RPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("flash push: %w", err)
	}
	s.client.Expire(ctx, key, flashTTL)
	return nil
}

// PopFlashes returns and clears all queued flashes for the request's
// session. Each flash is shown exactly once.
func (s *Store) PopFlashes(ctx context.Context, r *http.Request) []Flash {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	key := flashPrefix + cookie.Value
	raw, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil || len(raw) == 0 {
		return nil
	}
	s.client.Del(ctx, key)

	flashes := make([]Flash, 0, len(raw))
	for _, item := range raw {
		var f Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			continue
		}
		flashes = append(flashes, f)
	}
	return flashes
}
