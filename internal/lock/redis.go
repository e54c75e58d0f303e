package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/yourname/sleeprelay/internal"
)

type RedisOpts struct {
	Addr, Password, Namespace string
	DB                        int
	TTL                       time.Duration
	Timeout                   time.Duration
}

// Redis is a Locker shared by every relay pointed at the same Redis. Locks expire
// after TTL so a crashed relay cannot block wakes forever.
type Redis struct {
	rdb      *redis.Client
	nsPrefix string
	ttl      time.Duration
	logger   internal.Logger
}

// Deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

func NewRedis(o RedisOpts, logger internal.Logger) *Redis {
	if o.Timeout == 0 {
		o.Timeout = 5 * time.Second
	}
	if o.TTL == 0 {
		o.TTL = 30 * time.Second
	}
	if o.Namespace == "" {
		o.Namespace = "sleeprelay:lock"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         o.Addr,
		Password:     o.Password,
		DB:           o.DB,
		DialTimeout:  o.Timeout,
		ReadTimeout:  o.Timeout,
		WriteTimeout: o.Timeout,
	})
	return &Redis{rdb: rdb, nsPrefix: o.Namespace, ttl: o.TTL, logger: logger}
}

func (r *Redis) key(name string) string {
	return fmt.Sprintf("%s:%s", r.nsPrefix, name)
}

func (r *Redis) Acquire(ctx context.Context, name string) (func(), error) {
	k := r.key(name)
	token := uuid.NewString()
	ok, err := r.rdb.SetNX(ctx, k, token, r.ttl).Result()
	if err != nil {
		return nil, internal.TransportError("failed to acquire wake lock", err)
	}
	if !ok {
		return nil, internal.ErrWakeInProgress
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, r.rdb, []string{k}, token).Err(); err != nil {
			r.logger.Warnf("lock: failed to release %s: %v", k, err)
		}
	}, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}

var _ Locker = (*Redis)(nil)
