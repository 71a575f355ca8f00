// Package demoactivity keeps new users engaged: shortly after registration a
// demo profile likes them and, a little later, sends a greeting. Jobs live in
// a Redis sorted set scored by fire time, so scheduled activity survives
// restarts.
package demoactivity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/milanapp/milan-backend/internal/config"
	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/repository"
	"github.com/milanapp/milan-backend/internal/usecase/chat"
	"github.com/milanapp/milan-backend/internal/usecase/match"
)

const jobsKey = "demo:activity:jobs"

// Queue is a durable delay queue of serialized jobs.
type Queue interface {
	// Push stores a job due at the given time.
	Push(ctx context.Context, raw string, due time.Time) error
	// PopDue atomically claims and removes every job due by now.
	PopDue(ctx context.Context, now time.Time) ([]string, error)
}

// RedisQueue keeps jobs in a sorted set scored by fire time.
type RedisQueue struct {
	rdb *redis.Client
}

func NewRedisQueue(rdb *redis.Client) *RedisQueue {
	return &RedisQueue{rdb: rdb}
}

func (q *RedisQueue) Push(ctx context.Context, raw string, due time.Time) error {
	return q.rdb.ZAdd(ctx, jobsKey, redis.Z{
		Score:  float64(due.UnixMilli()),
		Member: raw,
	}).Err()
}

func (q *RedisQueue) PopDue(ctx context.Context, now time.Time) ([]string, error) {
	members, err := q.rdb.ZRangeByScore(ctx, jobsKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", now.UnixMilli()),
	}).Result()
	if err != nil {
		return nil, err
	}

	var claimed []string
	for _, raw := range members {
		removed, err := q.rdb.ZRem(ctx, jobsKey, raw).Result()
		if err != nil {
			return claimed, err
		}
		// removed == 0 means another worker claimed it first.
		if removed > 0 {
			claimed = append(claimed, raw)
		}
	}
	return claimed, nil
}

var greetings = []string{
	"Hello 👋",
	"Hi 😊",
	"Hey 👋",
	"Hello there 🙂",
	"Hi there 👋",
	"Hey! How are you? 😊",
	"Hello! Hope you're doing well 🌟",
	"Hi! Have a great day ☀️",
	"Hey there 😄",
	"Hello 🙂",
}

type jobKind string

const (
	kindLike    jobKind = "like"
	kindMessage jobKind = "message"
)

type job struct {
	ID       string    `json:"id"`
	Kind     jobKind   `json:"kind"`
	TargetID uuid.UUID `json:"target_id"`
	DemoID   uuid.UUID `json:"demo_id,omitempty"`
}

type Scheduler struct {
	queue    Queue
	profiles repository.ProfileRepository
	matches  *match.MatchUseCase
	chats    *chat.ChatUseCase
	cfg      config.DemoActivityConfig
	logger   *zap.Logger
}

func NewScheduler(
	queue Queue,
	profiles repository.ProfileRepository,
	matches *match.MatchUseCase,
	chats *chat.ChatUseCase,
	cfg config.DemoActivityConfig,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		queue:    queue,
		profiles: profiles,
		matches:  matches,
		chats:    chats,
		cfg:      cfg,
		logger:   logger,
	}
}

// Schedule enqueues a demo like for a freshly registered user, due at a
// random point between the configured min and max delay.
func (s *Scheduler) Schedule(ctx context.Context, userID uuid.UUID) error {
	if !s.cfg.Enabled {
		return nil
	}
	delay := s.cfg.MinDelay
	if spread := s.cfg.MaxDelay - s.cfg.MinDelay; spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread)))
	}
	return s.enqueue(ctx, job{
		ID:       uuid.NewString(),
		Kind:     kindLike,
		TargetID: userID,
	}, time.Now().Add(delay))
}

func (s *Scheduler) enqueue(ctx context.Context, j job, due time.Time) error {
	raw, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	if err := s.queue.Push(ctx, string(raw), due); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// Run polls for due jobs until the context is cancelled. Each claimed job is
// removed from the set before execution, so a job runs at most once even with
// several workers polling.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	s.logger.Info("demo activity scheduler started",
		zap.Duration("poll_interval", s.cfg.PollInterval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("demo activity scheduler stopped")
			return
		case <-ticker.C:
			s.drainDue(ctx)
		}
	}
}

func (s *Scheduler) drainDue(ctx context.Context) {
	claimed, err := s.queue.PopDue(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to poll demo activity jobs", zap.Error(err))
		return
	}

	for _, raw := range claimed {
		var j job
		if err := json.Unmarshal([]byte(raw), &j); err != nil {
			s.logger.Error("dropping malformed demo activity job", zap.Error(err))
			continue
		}
		if err := s.execute(ctx, j); err != nil {
			s.logger.Error("demo activity job failed",
				zap.String("kind", string(j.Kind)),
				zap.String("target_id", j.TargetID.String()),
				zap.Error(err))
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, j job) error {
	switch j.Kind {
	case kindLike:
		return s.executeLike(ctx, j)
	case kindMessage:
		return s.executeMessage(ctx, j)
	default:
		return fmt.Errorf("unknown job kind %q", j.Kind)
	}
}

func (s *Scheduler) executeLike(ctx context.Context, j job) error {
	target, err := s.profiles.GetByID(ctx, j.TargetID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			s.logger.Debug("demo like target gone, skipping",
				zap.String("target_id", j.TargetID.String()))
			return nil
		}
		return err
	}

	demoGender, _ := domain.OppositeGender(target.Gender)
	demo, err := s.profiles.RandomDemo(ctx, demoGender)
	if err != nil {
		if errors.Is(err, domain.ErrNoDemoProfiles) {
			s.logger.Warn("no demo profiles available, skipping demo like")
			return nil
		}
		return err
	}

	_, err = s.matches.Like(ctx, demo.ID, j.TargetID)
	if err != nil && !errors.Is(err, domain.ErrAlreadyInteracted) {
		return fmt.Errorf("demo like failed: %w", err)
	}

	s.logger.Info("demo like sent",
		zap.String("demo_id", demo.ID.String()),
		zap.String("target_id", j.TargetID.String()))

	return s.enqueue(ctx, job{
		ID:       uuid.NewString(),
		Kind:     kindMessage,
		TargetID: j.TargetID,
		DemoID:   demo.ID,
	}, time.Now().Add(s.cfg.MessageDelay))
}

func (s *Scheduler) executeMessage(ctx context.Context, j job) error {
	if _, err := s.profiles.GetByID(ctx, j.TargetID); err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			s.logger.Debug("demo message target gone, skipping",
				zap.String("target_id", j.TargetID.String()))
			return nil
		}
		return err
	}

	text := greetings[rand.Intn(len(greetings))]
	if _, err := s.chats.SendMessage(ctx, j.DemoID, j.TargetID, text); err != nil {
		return fmt.Errorf("demo message failed: %w", err)
	}

	s.logger.Info("demo greeting sent",
		zap.String("demo_id", j.DemoID.String()),
		zap.String("target_id", j.TargetID.String()))
	return nil
}
