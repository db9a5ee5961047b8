// Package ranking 基于 Redis 的浏览计数与全局排行。
//
// 每个条目一个计数 key（<prefix>:<id>:views），全局排行是一个 sorted set，
// score 即浏览次数。两者默认分两次请求更新，中间失败会短暂不一致，
// 二者都只是展示用的统计值。
package ranking

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable Redis 不可达或超时
var ErrUnavailable = errors.New("ranking store unavailable")

// Options 排行存储配置
type Options struct {
	// Key 全局排行 sorted set 的 key
	Key string
	// ViewsPrefix 计数 key 前缀
	ViewsPrefix string
	// Atomic 为 true 时用 MULTI/EXEC 同时更新计数与排行
	Atomic bool
}

// Store 浏览计数与排行
type Store struct {
	client redis.UniversalClient
	opts   Options
}

// NewStore client 由调用方创建并负责关闭
func NewStore(client redis.UniversalClient, opts Options) *Store {
	if opts.Key == "" {
		opts.Key = "image_ranking"
	}
	if opts.ViewsPrefix == "" {
		opts.ViewsPrefix = "image"
	}
	return &Store{client: client, opts: opts}
}

func (s *Store) viewsKey(itemID string) string {
	return fmt.Sprintf("%s:%s:views", s.opts.ViewsPrefix, itemID)
}

// RecordView 计数 +1 并在排行中 +1，返回新的浏览总数
func (s *Store) RecordView(ctx context.Context, itemID string) (int64, error) {
	if s.opts.Atomic {
		return s.recordViewTx(ctx, itemID)
	}

	total, err := s.client.Incr(ctx, s.viewsKey(itemID)).Result()
	if err != nil {
		return 0, wrap("incr views", err)
	}
	if err := s.client.ZIncrBy(ctx, s.opts.Key, 1, itemID).Err(); err != nil {
		return 0, wrap("zincrby ranking", err)
	}
	return total, nil
}

func (s *Store) recordViewTx(ctx context.Context, itemID string) (int64, error) {
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, s.viewsKey(itemID))
		pipe.ZIncrBy(ctx, s.opts.Key, 1, itemID)
		return nil
	})
	if err != nil {
		return 0, wrap("record view tx", err)
	}
	return incr.Val(), nil
}

// Views 当前浏览数，不存在时为 0
func (s *Store) Views(ctx context.Context, itemID string) (int64, error) {
	n, err := s.client.Get(ctx, s.viewsKey(itemID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, wrap("get views", err)
	}
	return n, nil
}

// Top 按 score 倒序返回至多 n 个条目 id；同分按成员字典序倒序
func (s *Store) Top(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return []string{}, nil
	}
	ids, err := s.client.ZRevRange(ctx, s.opts.Key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, wrap("zrevrange ranking", err)
	}
	return ids, nil
}

// Entry 排行项
type Entry struct {
	ItemID string
	Score  int64
}

// TopWithScores 同 Top，附带分数
func (s *Store) TopWithScores(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return []Entry{}, nil
	}
	zs, err := s.client.ZRevRangeWithScores(ctx, s.opts.Key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, wrap("zrevrange ranking", err)
	}
	out := make([]Entry, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		out = append(out, Entry{ItemID: member, Score: int64(z.Score)})
	}
	return out, nil
}

func wrap(op string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, redis.ErrClosed) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
