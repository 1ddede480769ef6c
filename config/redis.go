package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

/*
* Build the Redis client for sessions and dashboard caching
* Ping is advisory: a dead cache degrades, it does not block startup
 */
func ConnectRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: RedisAddr(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Println("Error while pinging redis: ", err)
	}
	return client
}
