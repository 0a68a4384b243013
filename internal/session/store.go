package session

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"hostelhub/internal/kvstore"
	"hostelhub/internal/utils"
)

const (
	sessionKeyPrefix = "session:"
	userIndexPrefix  = "user_sessions:"
)

type Config struct {
	CookieBase  string
	IdleTTL     time.Duration
	AbsoluteTTL time.Duration
	// MaxPerUser caps concurrent sessions per user; oldest sessions are
	// evicted when a new login exceeds it. Zero disables the cap.
	MaxPerUser int
}

// Store keeps sessions in the key-value store under session:<id> with a
// per-user sorted index scored by last-seen time.
type Store struct {
	kv     *kvstore.Store
	config Config
}

func NewStore(kv *kvstore.Store, config Config) *Store {
	return &Store{kv: kv, config: config}
}

func (s *Store) AbsoluteTTL() time.Duration {
	return s.config.AbsoluteTTL
}

// CookieName returns the tab-suffixed cookie name, giving each browser tab
// an independent session slot under one base name.
func (s *Store) CookieName(tabID string) string {
	if cleaned := SanitizeTabID(tabID); cleaned != "" {
		return s.config.CookieBase + "_" + cleaned
	}
	return s.config.CookieBase
}

type ClientMeta struct {
	IPAddress string
	UserAgent string
	Device    string
	TabID     string
}

func (s *Store) Create(ctx context.Context, userID string, role Role, meta ClientMeta) (*Session, error) {
	id, err := utils.GenerateToken()
	if err != nil {
		return nil, err
	}
	csrf, err := utils.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess := &Session{
		ID:        id,
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		LastSeen:  now,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Device:    meta.Device,
		CSRFToken: csrf,
		TabID:     SanitizeTabID(meta.TabID),
	}

	if err := s.write(ctx, sess, s.config.AbsoluteTTL); err != nil {
		return nil, err
	}
	// Millisecond scores keep back-to-back logins ordered in the index.
	if err := s.kv.ZAdd(ctx, userIndexPrefix+userID, id, float64(now.UnixMilli())); err != nil {
		return nil, err
	}
	if err := s.enforceCap(ctx, userID, id); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns the session or nil when missing; it never extends the TTL.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}
	data, err := s.kv.Get(ctx, sessionKeyPrefix+id)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decode(id, data)
}

// Touch slides the TTL forward by at most IdleTTL without ever passing the
// absolute ceiling: the new TTL is min(IdleTTL, remaining), and remaining
// only shrinks. Returns nil when the session has already expired.
func (s *Store) Touch(ctx context.Context, id string) (*Session, error) {
	key := sessionKeyPrefix + id
	remaining, err := s.kv.TTL(ctx, key)
	if err != nil {
		return nil, err
	}
	if remaining <= 0 {
		return nil, nil
	}

	newTTL := s.config.IdleTTL
	if remaining < newTTL {
		newTTL = remaining
	}

	sess, err := s.Get(ctx, id)
	if err != nil || sess == nil {
		return nil, err
	}

	sess.LastSeen = time.Now()
	if err := s.write(ctx, sess, newTTL); err != nil {
		return nil, err
	}
	if err := s.kv.ZAdd(ctx, userIndexPrefix+sess.UserID, id, float64(sess.LastSeen.UnixMilli())); err != nil {
		return nil, err
	}
	return sess, nil
}

// Delete removes the session and its index entry. userID may be empty, in
// which case it is recovered from the session record. Deleting a session
// that no longer exists is a no-op.
func (s *Store) Delete(ctx context.Context, id, userID string) error {
	if id == "" {
		return nil
	}
	if userID == "" {
		sess, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if sess == nil {
			return nil
		}
		userID = sess.UserID
	}
	if err := s.kv.Del(ctx, sessionKeyPrefix+id); err != nil {
		return err
	}
	return s.kv.ZRem(ctx, userIndexPrefix+userID, id)
}

// ListForUser resolves the per-user index to live sessions, pruning index
// entries whose session has already expired. The result is ordered by
// last-seen, newest first.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]*Session, error) {
	ids, err := s.kv.ZRangeDesc(ctx, userIndexPrefix+userID)
	if err != nil {
		return nil, err
	}

	sessions := make([]*Session, 0, len(ids))
	var dangling []string
	for _, id := range ids {
		sess, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if sess == nil {
			dangling = append(dangling, id)
			continue
		}
		sessions = append(sessions, sess)
	}

	if len(dangling) > 0 {
		if err := s.kv.ZRem(ctx, userIndexPrefix+userID, dangling...); err != nil {
			return nil, err
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastSeen.After(sessions[j].LastSeen)
	})
	return sessions, nil
}

// DeleteAllForUser revokes every session in the user's index.
func (s *Store) DeleteAllForUser(ctx context.Context, userID string) error {
	ids, err := s.kv.ZRangeDesc(ctx, userIndexPrefix+userID)
	if err != nil {
		return err
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sessionKeyPrefix + id
	}
	if err := s.kv.Del(ctx, keys...); err != nil {
		return err
	}
	return s.kv.Del(ctx, userIndexPrefix+userID)
}

func (s *Store) enforceCap(ctx context.Context, userID, newID string) error {
	if s.config.MaxPerUser <= 0 {
		return nil
	}
	indexKey := userIndexPrefix + userID
	count, err := s.kv.ZCard(ctx, indexKey)
	if err != nil {
		return err
	}
	excess := count - int64(s.config.MaxPerUser)
	if excess <= 0 {
		return nil
	}

	// Fetch one past the excess and skip the session just issued: a score
	// tie would otherwise break lexically and could evict it.
	candidates, err := s.kv.ZRangeAsc(ctx, indexKey, excess+1)
	if err != nil {
		return err
	}
	victims := make([]string, 0, excess)
	for _, id := range candidates {
		if id == newID {
			continue
		}
		victims = append(victims, id)
		if int64(len(victims)) == excess {
			break
		}
	}
	if len(victims) == 0 {
		return nil
	}

	keys := make([]string, len(victims))
	for i, id := range victims {
		keys[i] = sessionKeyPrefix + id
	}
	if err := s.kv.Del(ctx, keys...); err != nil {
		return err
	}
	return s.kv.ZRem(ctx, indexKey, victims...)
}

func (s *Store) write(ctx context.Context, sess *Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.kv.SetEX(ctx, sessionKeyPrefix+sess.ID, string(data), ttl)
}

func decode(id, data string) (*Session, error) {
	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	sess.ID = id
	return &sess, nil
}
