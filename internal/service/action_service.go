package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/d60-Lab/bookmarks/internal/metrics"
	"github.com/d60-Lab/bookmarks/internal/model"
	"github.com/d60-Lab/bookmarks/internal/repository"
	"github.com/d60-Lab/bookmarks/pkg/logger"
)

const (
	DefaultDedupWindow = 60 * time.Second
	DefaultFeedLimit   = 10
	MaxFeedLimit       = 100
)

// ActionService 动态记录与动态流
type ActionService interface {
	// Record 记录 actor 对 target 的 verb；窗口内已有相同记录时不写入并返回 false。
	// 检查与写入之间没有加锁，并发的相同请求可能都写入。
	Record(ctx context.Context, actorID, verb string, target model.Target) (bool, error)
	// RecentFeed 最近动态，排除 excludingActor。followingOf 非空且有关注对象时
	// 只看这些关注对象的动态，否则看所有人的。
	RecentFeed(ctx context.Context, excludingActor, followingOf string, limit int) ([]*model.Action, error)
	// Hydrate 批量补全动态的用户名与对象名
	Hydrate(ctx context.Context, actions []*model.Action) ([]FeedEntry, error)
}

// FeedEntry 展示用的动态
type FeedEntry struct {
	ID          uint64    `json:"id"`
	ActorID     string    `json:"actor_id"`
	ActorName   string    `json:"actor_name"`
	Verb        string    `json:"verb"`
	TargetKind  string    `json:"target_kind,omitempty"`
	TargetID    string    `json:"target_id,omitempty"`
	TargetLabel string    `json:"target_label,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ActionOptions 可选参数，零值取默认
type ActionOptions struct {
	Window    time.Duration
	FeedLimit int
	Now       func() time.Time
}

type recordInput struct {
	ActorID string `validate:"required,max=36"`
	Verb    string `validate:"required,max=255"`
}

type actionService struct {
	actionRepo repository.ActionRepository
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	imageRepo  repository.ImageRepository
	validate   *validator.Validate
	window     time.Duration
	feedLimit  int
	now        func() time.Time
}

func NewActionService(
	actionRepo repository.ActionRepository,
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	imageRepo repository.ImageRepository,
	opts ActionOptions,
) ActionService {
	if opts.Window <= 0 {
		opts.Window = DefaultDedupWindow
	}
	if opts.FeedLimit <= 0 {
		opts.FeedLimit = DefaultFeedLimit
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &actionService{
		actionRepo: actionRepo,
		followRepo: followRepo,
		userRepo:   userRepo,
		imageRepo:  imageRepo,
		validate:   validator.New(),
		window:     opts.Window,
		feedLimit:  opts.FeedLimit,
		now:        opts.Now,
	}
}

func (s *actionService) Record(ctx context.Context, actorID, verb string, target model.Target) (bool, error) {
	in := recordInput{ActorID: strings.TrimSpace(actorID), Verb: strings.TrimSpace(verb)}
	if err := s.validate.Struct(in); err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}

	actorID, verb = in.ActorID, in.Verb

	now := s.now()
	exists, err := s.actionRepo.ExistsSince(ctx, actorID, verb, target, now.Add(-s.window))
	if err != nil {
		return false, fmt.Errorf("check recent actions: %w", err)
	}
	if exists {
		metrics.ActionsTotal.WithLabelValues(verb, "suppressed").Inc()
		logger.Debug("duplicate action suppressed", zap.String("actor", actorID), zap.String("verb", verb))
		return false, nil
	}

	a := &model.Action{ActorID: actorID, Verb: verb, CreatedAt: now}
	a.SetTarget(target)
	if err := s.actionRepo.Create(ctx, a); err != nil {
		return false, fmt.Errorf("insert action: %w", err)
	}
	metrics.ActionsTotal.WithLabelValues(verb, "recorded").Inc()
	return true, nil
}

func (s *actionService) RecentFeed(ctx context.Context, excludingActor, followingOf string, limit int) ([]*model.Action, error) {
	if limit <= 0 {
		limit = s.feedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	var actorIDs []string
	if followingOf != "" {
		ids, err := s.followRepo.FolloweeIDs(ctx, followingOf)
		if err != nil {
			return nil, fmt.Errorf("load followees: %w", err)
		}
		// 没有关注任何人时退化为全站动态
		actorIDs = ids
	}
	actions, err := s.actionRepo.Recent(ctx, excludingActor, actorIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return actions, nil
}

func (s *actionService) Hydrate(ctx context.Context, actions []*model.Action) ([]FeedEntry, error) {
	userIDs := make([]string, 0, len(actions))
	var imageIDs []uint64
	targets := make([]model.Target, len(actions))
	for i, a := range actions {
		userIDs = append(userIDs, a.ActorID)
		t, err := a.Target()
		if err != nil {
			logger.Warn("skip malformed action target", zap.Uint64("action", a.ID), zap.Error(err))
			continue
		}
		targets[i] = t
		switch v := t.(type) {
		case model.UserTarget:
			userIDs = append(userIDs, v.ID)
		case model.ImageTarget:
			imageIDs = append(imageIDs, v.ID)
		}
	}

	users, err := s.userRepo.GetByIDs(ctx, dedupe(userIDs))
	if err != nil {
		return nil, fmt.Errorf("load feed users: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	images, err := s.imageRepo.GetByIDs(ctx, imageIDs)
	if err != nil {
		return nil, fmt.Errorf("load feed images: %w", err)
	}
	titles := make(map[uint64]string, len(images))
	for _, img := range images {
		titles[img.ID] = img.Title
	}

	out := make([]FeedEntry, len(actions))
	for i, a := range actions {
		e := FeedEntry{
			ID:        a.ID,
			ActorID:   a.ActorID,
			ActorName: names[a.ActorID],
			Verb:      a.Verb,
			CreatedAt: a.CreatedAt,
		}
		// 已删除的对象保持 label 为空
		switch v := targets[i].(type) {
		case model.UserTarget:
			e.TargetKind, e.TargetID, e.TargetLabel = string(v.Kind()), v.Ref(), names[v.ID]
		case model.ImageTarget:
			e.TargetKind, e.TargetID, e.TargetLabel = string(v.Kind()), v.Ref(), titles[v.ID]
		}
		out[i] = e
	}
	return out, nil
}

// recordQuietly 记录动态但不让失败影响主流程
func recordQuietly(ctx context.Context, actions ActionService, actorID, verb string, target model.Target) {
	if actions == nil {
		return
	}
	if _, err := actions.Record(ctx, actorID, verb, target); err != nil {
		level := logger.Error
		if errors.Is(err, ErrInvalidAction) {
			level = logger.Warn
		}
		level("record action failed", zap.String("actor", actorID), zap.String("verb", verb), zap.Error(err))
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
