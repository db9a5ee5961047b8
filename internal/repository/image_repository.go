package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/bookmarks/internal/model"
)

type ImageRepository interface {
	Create(ctx context.Context, img *model.Image) error
	GetByID(ctx context.Context, id uint64) (*model.Image, error)
	// GetByIDs 不保证顺序
	GetByIDs(ctx context.Context, ids []uint64) ([]*model.Image, error)
	List(ctx context.Context, offset, limit int) ([]*model.Image, error)
	ListLikedBy(ctx context.Context, userID string, offset, limit int) ([]*model.Image, error)
	// AddLike / RemoveLike 变更点赞并在同一事务内刷新 total_likes
	AddLike(ctx context.Context, imageID uint64, userID string) (*model.Image, bool, error)
	RemoveLike(ctx context.Context, imageID uint64, userID string) (*model.Image, error)
}

type imageRepository struct{ db *gorm.DB }

func NewImageRepository(db *gorm.DB) ImageRepository { return &imageRepository{db: db} }

func (r *imageRepository) Create(ctx context.Context, img *model.Image) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *imageRepository) GetByID(ctx context.Context, id uint64) (*model.Image, error) {
	var img model.Image
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&img).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *imageRepository) GetByIDs(ctx context.Context, ids []uint64) ([]*model.Image, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var res []*model.Image
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&res).Error
	return res, err
}

func (r *imageRepository) List(ctx context.Context, offset, limit int) ([]*model.Image, error) {
	var res []*model.Image
	err := r.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *imageRepository) ListLikedBy(ctx context.Context, userID string, offset, limit int) ([]*model.Image, error) {
	var res []*model.Image
	err := r.db.WithContext(ctx).
		Joins("JOIN image_likes ON image_likes.image_id = images.id").
		Where("image_likes.user_id = ?", userID).
		Order("image_likes.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *imageRepository) AddLike(ctx context.Context, imageID uint64, userID string) (*model.Image, bool, error) {
	var img model.Image
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", imageID).First(&img).Error; err != nil {
			return err
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.ImageLike{ImageID: imageID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}
		added = res.RowsAffected > 0
		return img.RefreshTotalLikes(tx)
	})
	if err != nil {
		return nil, false, err
	}
	return &img, added, nil
}

func (r *imageRepository) RemoveLike(ctx context.Context, imageID uint64, userID string) (*model.Image, error) {
	var img model.Image
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", imageID).First(&img).Error; err != nil {
			return err
		}
		if err := tx.Where("image_id = ? AND user_id = ?", imageID, userID).
			Delete(&model.ImageLike{}).Error; err != nil {
			return err
		}
		return img.RefreshTotalLikes(tx)
	})
	if err != nil {
		return nil, err
	}
	return &img, nil
}
