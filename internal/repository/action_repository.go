package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/bookmarks/internal/model"
)

// ActionRepository 动态仓储，只追加不修改
type ActionRepository interface {
	Create(ctx context.Context, a *model.Action) error
	// ExistsSince 是否存在 created_at >= since 的相同 (actor, verb, target) 记录。
	// target 为 nil 时只匹配同样没有 target 的记录。
	ExistsSince(ctx context.Context, actorID, verb string, target model.Target, since time.Time) (bool, error)
	// Recent 按 created_at、id 倒序返回最近动态，排除 excludeActor；
	// actorIDs 非空时只返回这些用户的动态
	Recent(ctx context.Context, excludeActor string, actorIDs []string, limit int) ([]*model.Action, error)
	CountByActor(ctx context.Context, actorID string) (int64, error)
}

type actionRepository struct {
	db *gorm.DB
}

func NewActionRepository(db *gorm.DB) ActionRepository { return &actionRepository{db: db} }

func (r *actionRepository) Create(ctx context.Context, a *model.Action) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *actionRepository) ExistsSince(ctx context.Context, actorID, verb string, target model.Target, since time.Time) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Action{}).
		Where("actor_id = ? AND verb = ? AND created_at >= ?", actorID, verb, since)
	if target != nil {
		q = q.Where("target_kind = ? AND target_id = ?", string(target.Kind()), target.Ref())
	} else {
		q = q.Where("target_kind IS NULL")
	}

	var ids []uint64
	if err := q.Limit(1).Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (r *actionRepository) Recent(ctx context.Context, excludeActor string, actorIDs []string, limit int) ([]*model.Action, error) {
	q := r.db.WithContext(ctx).Where("actor_id <> ?", excludeActor)
	if len(actorIDs) > 0 {
		q = q.Where("actor_id IN ?", actorIDs)
	}
	var res []*model.Action
	err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&res).Error
	return res, err
}

func (r *actionRepository) CountByActor(ctx context.Context, actorID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Action{}).Where("actor_id = ?", actorID).Count(&cnt).Error
	return cnt, err
}
