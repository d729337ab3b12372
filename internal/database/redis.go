package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/kaushal1717/vibe-helper/internal/config"
	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

func InitRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	if _, err := Redis.Ping(Ctx).Result(); err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Translation caching and token revocation will be disabled.", err)
	} else {
		log.Println("Connected to Redis successfully")
	}
}

// RedisAvailable reports whether the client is usable right now.
func RedisAvailable() bool {
	if Redis == nil {
		return false
	}
	_, err := Redis.Ping(Ctx).Result()
	return err == nil
}

// --- Token revocation ---

func BlacklistToken(jti string, ttl time.Duration) error {
	if Redis == nil {
		return fmt.Errorf("redis not configured")
	}
	return Redis.Set(Ctx, "token_blacklist:"+jti, "1", ttl).Err()
}

func IsTokenBlacklisted(jti string) bool {
	if Redis == nil || jti == "" {
		return false
	}
	exists, err := Redis.Exists(Ctx, "token_blacklist:"+jti).Result()
	return err == nil && exists > 0
}

// --- Caching ---

func CacheSet(key string, value interface{}, expiration time.Duration) error {
	if Redis == nil {
		return fmt.Errorf("redis not configured")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return Redis.Set(Ctx, key, data, expiration).Err()
}

func CacheGet(key string, dest interface{}) error {
	if Redis == nil {
		return fmt.Errorf("redis not configured")
	}
	val, err := Redis.Get(Ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}
