package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BoardingPass is the in-flight session payload cached for quick access.
type BoardingPass struct {
	SessionID         int64      `json:"session_id"`
	DepartureCityID   int64      `json:"departure_city_id"`
	DestinationCityID int64      `json:"destination_city_id"`
	Seat              *string    `json:"seat"`
	PlannedDuration   int        `json:"planned_duration"`
	MilesEarned       int        `json:"miles_earned"`
	StartedAt         *time.Time `json:"started_at"`
}

// BoardingStore caches the currently boarding flight in redis.
type BoardingStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBoardingStore returns redis-backed store.
func NewBoardingStore(client *redis.Client, ttl time.Duration) *BoardingStore {
	return &BoardingStore{client: client, ttl: ttl}
}

func (s *BoardingStore) key(sessionID int64) string {
	return fmt.Sprintf("flights:boarding:%d", sessionID)
}

// Save caches the boarding pass.
func (s *BoardingStore) Save(ctx context.Context, pass BoardingPass) error {
	data, err := json.Marshal(pass)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(pass.SessionID), data, s.ttl).Err()
}

// Get returns the cached boarding pass, or redis.Nil when absent.
func (s *BoardingStore) Get(ctx context.Context, sessionID int64) (*BoardingPass, error) {
	result, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	var pass BoardingPass
	if err := json.Unmarshal([]byte(result), &pass); err != nil {
		return nil, err
	}
	return &pass, nil
}

// Delete removes the cached boarding pass.
func (s *BoardingStore) Delete(ctx context.Context, sessionID int64) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}
