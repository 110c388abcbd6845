package pkg

import (
	"fmt"

	"github.com/xiaoxuxiansheng/redis_lock"
)

func NewRedisClient(network, address, password string) *redis_lock.Client {
	return redis_lock.NewClient(network, address, password)
}

func BuildCounterKey(id string) string {
	return fmt.Sprintf("txmanager:counter:%s", id)
}

func BuildCounterLockKey(id string) string {
	return fmt.Sprintf("txmanager:counter:lock:%s", id)
}
