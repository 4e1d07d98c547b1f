package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/arinovich/bookwidget/config"
	"github.com/arinovich/bookwidget/internal/domain"
	"github.com/arinovich/bookwidget/internal/service/checkout"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client         *redis.Client
	experiencesTTL time.Duration
	sessionTTL     time.Duration
}

func NewRedisCache(cfg config.RedisConfig, experiencesTTL, sessionTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:         redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		experiencesTTL: experiencesTTL,
		sessionTTL:     sessionTTL,
	}
}

func (c *RedisCache) GetExperiences(ctx context.Context, orgID int64) ([]domain.Experience, error) {
	data, err := c.client.Get(ctx, experiencesKey(orgID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var experiences []domain.Experience
	if err := json.Unmarshal(data, &experiences); err != nil {
		return nil, err
	}
	return experiences, nil
}

func (c *RedisCache) SetExperiences(ctx context.Context, orgID int64, experiences []domain.Experience) error {
	payload, err := json.Marshal(experiences)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, experiencesKey(orgID), payload, c.experiencesTTL).Err()
}

// AcquireSlotHold marks a slot as held by a checkout session while the guest
// fills in payment details. The hold expires on its own if the checkout is
// abandoned. Re-acquiring a hold the same session already owns succeeds.
func (c *RedisCache) AcquireSlotHold(ctx context.Context, slotID int64, sessionID string, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, slotHoldKey(slotID), sessionID, ttl).Result()
	if err != nil || ok {
		return ok, err
	}
	owner, err := c.client.Get(ctx, slotHoldKey(slotID)).Result()
	if err != nil {
		if err == redis.Nil {
			return c.client.SetNX(ctx, slotHoldKey(slotID), sessionID, ttl).Result()
		}
		return false, err
	}
	return owner == sessionID, nil
}

func (c *RedisCache) ReleaseSlotHold(ctx context.Context, slotID int64, sessionID string) error {
	owner, err := c.client.Get(ctx, slotHoldKey(slotID)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if owner != sessionID {
		return nil
	}
	return c.client.Del(ctx, slotHoldKey(slotID)).Err()
}

func (c *RedisCache) GetSession(ctx context.Context, sessionID string) (*checkout.Draft, error) {
	data, err := c.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var draft checkout.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *RedisCache) SaveSession(ctx context.Context, draft *checkout.Draft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKey(draft.SessionID), payload, c.sessionTTL).Err()
}

func (c *RedisCache) DeleteSession(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, sessionKey(sessionID)).Err()
}

func experiencesKey(orgID int64) string {
	return fmt.Sprintf("cache:experiences:%d", orgID)
}

func slotHoldKey(slotID int64) string {
	return fmt.Sprintf("hold:slot:%d", slotID)
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}
