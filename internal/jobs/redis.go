package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	jobKeyPrefix = "job:"
	jobIndexKey  = "jobs"

	redisOpTimeout = 2 * time.Second
)

// RedisStore persists jobs in Redis so that progress survives process
// restarts and is visible to other processes. Each job lives under a
// job:<id> key; a sorted set keyed on creation time backs List.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisStoreAddr dials addr and verifies the connection before use.
func NewRedisStoreAddr(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

func jobKey(jobID string) string {
	return jobKeyPrefix + jobID
}

func (s *RedisStore) Create(job *Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	exists, err := s.client.Exists(ctx, jobKey(job.ID)).Result()
	if err != nil {
		return fmt.Errorf("check job %s: %w", job.ID, err)
	}
	if exists > 0 {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	return s.write(ctx, job)
}

func (s *RedisStore) Get(jobID string) (*Job, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, jobKey(jobID)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("job %s not found", jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", jobID, err)
	}
	return &job, nil
}

func (s *RedisStore) Update(job *Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	exists, err := s.client.Exists(ctx, jobKey(job.ID)).Result()
	if err != nil {
		return fmt.Errorf("check job %s: %w", job.ID, err)
	}
	if exists == 0 {
		return fmt.Errorf("job %s not found", job.ID)
	}
	return s.write(ctx, job)
}

func (s *RedisStore) Delete(jobID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, jobKey(jobID))
	pipe.ZRem(ctx, jobIndexKey, jobID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete job %s: %w", jobID, err)
	}
	return nil
}

func (s *RedisStore) List() ([]*Job, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	ids, err := s.client.ZRevRange(ctx, jobIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	out := make([]*Job, 0, len(ids))
	for _, id := range ids {
		job, err := s.Get(id)
		if err != nil {
			// Index entries can outlive expired job keys.
			continue
		}
		out = append(out, job)
	}
	return out, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) write(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, jobKey(job.ID), data, 0)
	pipe.ZAdd(ctx, jobIndexKey, redis.Z{
		Score:  float64(job.CreatedAt.UnixNano()),
		Member: job.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store job %s: %w", job.ID, err)
	}
	return nil
}
