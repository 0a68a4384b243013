package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrNotConnected = errors.New("kvstore not connected")
	ErrNotFound     = errors.New("key not found")
	ErrUnavailable  = errors.New("kvstore unavailable")
)

const dialTimeout = 5 * time.Second

// Store wraps a single Redis client shared by the whole process.
// Connect runs the dial exactly once; every primitive fails with
// ErrNotConnected until it has succeeded.
type Store struct {
	url string

	mu        sync.Mutex
	client    *redis.Client
	connected bool
}

func New(url string) *Store {
	return &Store{url: url}
}

func (s *Store) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return nil
	}

	opt, err := redis.ParseURL(s.url)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	opt.DialTimeout = dialTimeout
	opt.MinIdleConns = 2
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.client = client
	s.connected = true
	return nil
}

func (s *Store) Client() (*redis.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil, ErrNotConnected
	}
	return s.client, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil
	}
	s.connected = false
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	client, err := s.Client()
	if err != nil {
		return "", err
	}
	value, err := client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return value, nil
}

func (s *Store) SetEX(ctx context.Context, key, value string, ttl time.Duration) error {
	client, err := s.Client()
	if err != nil {
		return err
	}
	if err := client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	client, err := s.Client()
	if err != nil {
		return err
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// DelPattern enumerates keys with SCAN and deletes them in one batch.
// Enumeration keeps the operation portable to stores without glob deletes.
func (s *Store) DelPattern(ctx context.Context, pattern string) (int, error) {
	client, err := s.Client()
	if err != nil {
		return 0, err
	}

	var (
		cursor uint64
		found  []string
	)
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		found = append(found, keys...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(found) == 0 {
		return 0, nil
	}
	if err := client.Del(ctx, found...).Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return len(found), nil
}

func (s *Store) TTL(ctx context.Context, key string) (time.Duration, error) {
	client, err := s.Client()
	if err != nil {
		return 0, err
	}
	ttl, err := client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ttl, nil
}

func (s *Store) ZAdd(ctx context.Context, key, member string, score float64) error {
	client, err := s.Client()
	if err != nil {
		return err
	}
	if err := client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// ZRangeDesc returns all members ordered by score, highest first.
func (s *Store) ZRangeDesc(ctx context.Context, key string) ([]string, error) {
	client, err := s.Client()
	if err != nil {
		return nil, err
	}
	members, err := client.ZRevRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return members, nil
}

// ZRangeAsc returns the n lowest-scored members.
func (s *Store) ZRangeAsc(ctx context.Context, key string, n int64) ([]string, error) {
	client, err := s.Client()
	if err != nil {
		return nil, err
	}
	members, err := client.ZRange(ctx, key, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return members, nil
}

func (s *Store) ZRem(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	client, err := s.Client()
	if err != nil {
		return err
	}
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := client.ZRem(ctx, key, args...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *Store) ZCard(ctx context.Context, key string) (int64, error) {
	client, err := s.Client()
	if err != nil {
		return 0, err
	}
	count, err := client.ZCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return count, nil
}
