package persistence

import (
	"context"
	"encoding/json"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/nairobi-skylines/citysim/internal/errors"
	"github.com/nairobi-skylines/citysim/internal/pkg/clock"
	"github.com/nairobi-skylines/citysim/internal/pkg/idgen"
)

const (
	// Key pattern: citysim:save:{slot}
	saveKeyPrefix = "citysim:save:"
	// Set of every slot name written.
	slotsKey = "citysim:slots"
)

// RedisConfig holds the configuration for the Redis store
type RedisConfig struct {
	Client redis.UniversalClient
	Clock  clock.Clock
	IDGen  idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgumentf("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgumentf("clock is required")
	}
	if c.IDGen == nil {
		return errors.InvalidArgumentf("id generator is required")
	}
	return nil
}

// RedisStore keeps save blobs in Redis.
type RedisStore struct {
	client redis.UniversalClient
	clock  clock.Clock
	ids    idgen.Generator
}

// NewRedisStore creates a Redis-backed save store
func NewRedisStore(cfg *RedisConfig) (*RedisStore, error) {
	if cfg == nil {
		return nil, errors.InvalidArgumentf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &RedisStore{client: cfg.Client, clock: cfg.Clock, ids: cfg.IDGen}, nil
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)

type redisRecord struct {
	Info SaveInfo        `json:"info"`
	Data json.RawMessage `json:"data"`
}

func saveKey(slot string) string {
	return saveKeyPrefix + slot
}

// Save writes the state into its slot.
func (r *RedisStore) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.State == nil {
		return nil, errors.InvalidArgumentf("state is required")
	}
	slot := input.Slot
	if slot == "" {
		slot = DefaultSlot
	}

	data, err := Encode(input.State)
	if err != nil {
		return nil, err
	}
	rec := redisRecord{
		Info: SaveInfo{
			ID:      r.ids.Generate(),
			Slot:    slot,
			Tick:    input.State.Stats.TickCount,
			Money:   input.State.Stats.Money,
			SavedAt: r.clock.Now(),
		},
		Data: data,
	}
	blob, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal save")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, saveKey(slot), blob, 0)
	pipe.SAdd(ctx, slotsKey, slot)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to store save in Redis")
	}
	return &SaveOutput{Info: rec.Info}, nil
}

// Load restores the state saved in a slot.
func (r *RedisStore) Load(ctx context.Context, input LoadInput) (*LoadOutput, error) {
	slot := input.Slot
	if slot == "" {
		slot = DefaultSlot
	}

	blob, err := r.client.Get(ctx, saveKey(slot)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no save in slot %q", slot)
		}
		return nil, errors.Wrap(err, "failed to get save from Redis")
	}

	var rec redisRecord
	if err := json.Unmarshal(blob, &rec); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeCorruptSaveData, "failed to unmarshal save")
	}
	state, err := Decode(rec.Data)
	if err != nil {
		return nil, errors.Wrap(err, "load slot "+slot)
	}
	return &LoadOutput{State: state, Info: rec.Info}, nil
}

// Slots lists the saved slot names.
func (r *RedisStore) Slots(ctx context.Context) ([]string, error) {
	slots, err := r.client.SMembers(ctx, slotsKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list slots")
	}
	sort.Strings(slots)
	return slots, nil
}

// Close closes the Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
