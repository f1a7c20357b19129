package services

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tigarcia/validator-version-monitor/config"
)

type CacheMode string

const (
	CacheModeRedis    CacheMode = "redis"
	CacheModeInMemory CacheMode = "in-memory"
)

const (
	cacheKeyPrefix      = "vvm:"
	redisOpTimeout      = 2 * time.Second
	redisHealthInterval = 30 * time.Second
)

var errNoRedis = errors.New("redis not configured")

type memEntry struct {
	data    []byte
	expires time.Time
}

func (m *memEntry) live() bool {
	return time.Now().Before(m.expires)
}

// CacheService stores JSON values in Redis while it answers pings and in
// process memory otherwise. Entries written during an outage are replayed
// into Redis once it is back.
type CacheService struct {
	enabled bool
	redis   *redis.Client
	redisUp atomic.Bool
	mem     sync.Map

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func NewCacheService(cfg *config.Config) *CacheService {
	ctx, cancel := context.WithCancel(context.Background())
	cs := &CacheService{enabled: cfg.Redis.Enabled, ctx: ctx, cancel: cancel}

	switch {
	case !cfg.Redis.Enabled:
		log.Println("Redis disabled, dataset cache kept in memory")
	case cfg.Redis.Address == "":
		log.Println("⚠️  Redis enabled without an address, dataset cache kept in memory")
	default:
		cs.redis = newRedisClient(cfg.Redis)
		if err := cs.ping(5 * time.Second); err != nil {
			log.Printf("⚠️  Redis %s unreachable (%v), caching in memory until it answers", cfg.Redis.Address, err)
		} else {
			cs.redisUp.Store(true)
			log.Printf("✓ Redis ready at %s", cfg.Redis.Address)
		}
	}
	return cs
}

func newRedisClient(rc config.RedisConfig) *redis.Client {
	opts := &redis.Options{
		Addr:         rc.Address,
		Password:     rc.Password,
		DB:           rc.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  redisOpTimeout,
		WriteTimeout: redisOpTimeout,
		PoolSize:     4,
		MaxRetries:   1,
	}
	if rc.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opts)
}

func (cs *CacheService) ping(timeout time.Duration) error {
	if cs.redis == nil {
		return errNoRedis
	}
	ctx, cancel := context.WithTimeout(cs.ctx, timeout)
	defer cancel()
	return cs.redis.Ping(ctx).Err()
}

func (cs *CacheService) GetCacheMode() CacheMode {
	if cs.redisUp.Load() {
		return CacheModeRedis
	}
	return CacheModeInMemory
}

// StartHealthCheck pings Redis periodically and flips the mode on change
func (cs *CacheService) StartHealthCheck() {
	if cs.redis == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(redisHealthInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cs.probe()
			case <-cs.ctx.Done():
				return
			}
		}
	}()
}

func (cs *CacheService) probe() {
	err := cs.ping(redisOpTimeout)
	up := err == nil
	if cs.redisUp.Swap(up) == up {
		return
	}
	if !up {
		log.Printf("⚠️  Redis lost (%v), caching in memory", err)
		return
	}
	log.Printf("✓ Redis back, replayed %d entries", cs.replay())
}

// replay copies the still-live memory entries into Redis
func (cs *CacheService) replay() int {
	n := 0
	cs.mem.Range(func(k, v any) bool {
		e := v.(*memEntry)
		if ttl := time.Until(e.expires); ttl > 0 && cs.redisSet(k.(string), e.data, ttl) == nil {
			n++
		}
		return true
	})
	return n
}

func (cs *CacheService) Stop() {
	cs.once.Do(func() {
		cs.cancel()
		if cs.redis != nil {
			cs.redis.Close()
		}
	})
}

// Set encodes data as JSON and stores it under key
func (cs *CacheService) Set(key string, data any, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if cs.redisUp.Load() {
		err := cs.redisSet(key, raw, ttl)
		if err == nil {
			return nil
		}
		log.Printf("⚠️  Redis SET %s failed, kept in memory: %v", key, err)
	}
	cs.mem.Store(key, &memEntry{data: raw, expires: time.Now().Add(ttl)})
	return nil
}

// Get decodes the value under key into out. found is false on a miss or an
// expired entry.
func (cs *CacheService) Get(key string, out any) (bool, error) {
	raw, found := cs.lookup(key)
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (cs *CacheService) lookup(key string) ([]byte, bool) {
	if cs.redisUp.Load() {
		ctx, cancel := context.WithTimeout(cs.ctx, redisOpTimeout)
		defer cancel()
		data, err := cs.redis.Get(ctx, cacheKeyPrefix+key).Bytes()
		switch {
		case err == nil:
			return data, true
		case errors.Is(err, redis.Nil):
			return nil, false
		}
	}
	v, ok := cs.mem.Load(key)
	if !ok {
		return nil, false
	}
	e := v.(*memEntry)
	if !e.live() {
		cs.mem.Delete(key)
		return nil, false
	}
	return e.data, true
}

func (cs *CacheService) redisSet(key string, data []byte, ttl time.Duration) error {
	if cs.redis == nil {
		return errNoRedis
	}
	ctx, cancel := context.WithTimeout(cs.ctx, redisOpTimeout)
	defer cancel()
	return cs.redis.Set(ctx, cacheKeyPrefix+key, data, ttl).Err()
}

// ClearCache drops every entry under this service's prefix
func (cs *CacheService) ClearCache() error {
	if cs.redisUp.Load() {
		ctx, cancel := context.WithTimeout(cs.ctx, 5*time.Second)
		defer cancel()

		var keys []string
		iter := cs.redis.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := cs.redis.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete cache keys: %w", err)
			}
		}
		log.Printf("Cache cleared: %d Redis keys", len(keys))
	}

	cs.mem.Range(func(k, _ any) bool {
		cs.mem.Delete(k)
		return true
	})
	return nil
}

func (cs *CacheService) GetCacheStats() map[string]interface{} {
	stats := map[string]interface{}{
		"mode":    string(cs.GetCacheMode()),
		"enabled": cs.enabled,
	}

	if cs.redisUp.Load() {
		ctx, cancel := context.WithTimeout(cs.ctx, redisOpTimeout)
		defer cancel()
		if n, err := cs.redis.DBSize(ctx).Result(); err == nil {
			stats["redis_keys"] = n
		}
	}

	live := 0
	cs.mem.Range(func(_, v any) bool {
		if v.(*memEntry).live() {
			live++
		}
		return true
	})
	stats["in_memory_keys"] = live
	return stats
}
