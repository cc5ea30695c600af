package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ventana fija: INCR y, en el primer hit, PEXPIRE con la duración de la ventana.
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// Redis ventana fija compartida entre réplicas.
type Redis struct {
	client redis.Scripter
	prefix string
	limit  int
	window time.Duration
}

// NewRedisClient abre el cliente go-redis.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("ratelimit: REDIS_ADDR es obligatorio")
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}), nil
}

// NewRedis construye el limitador: como mucho limit peticiones por clave en cada ventana.
func NewRedis(client redis.Scripter, prefix string, limit int, window time.Duration) *Redis {
	if window <= 0 {
		window = time.Minute
	}
	return &Redis{client: client, prefix: prefix, limit: limit, window: window}
}

// Key clave de Redis para el identificador dado.
func (r *Redis) Key(id string) string {
	return r.prefix + ":" + id
}

// Allow incrementa el contador de la ventana actual.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	if r.limit <= 0 {
		return true, nil
	}
	current, err := fixedWindowScript.Run(ctx, r.client, []string{r.Key(key)}, r.window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return current <= int64(r.limit), nil
}
