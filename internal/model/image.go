package model

import (
	"time"

	"gorm.io/gorm"
)

// Image 从外部站点收藏的图片
type Image struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      string    `json:"user_id" gorm:"type:varchar(36);not null;index:idx_image_user"`
	Title       string    `json:"title" gorm:"type:varchar(200);not null"`
	Slug        string    `json:"slug" gorm:"type:varchar(200);index"`
	URL         string    `json:"url" gorm:"type:varchar(2000);not null"`
	Description string    `json:"description" gorm:"type:text"`
	TotalLikes  int64     `json:"total_likes" gorm:"not null;default:0;index:idx_image_likes,sort:desc"`
	CreatedAt   time.Time `json:"created_at" gorm:"index:idx_image_created,sort:desc"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Image) TableName() string { return "images" }

// ImageLike 用户点赞图片
type ImageLike struct {
	ImageID   uint64 `gorm:"primaryKey;autoIncrement:false"`
	UserID    string `gorm:"primaryKey;type:varchar(36);index:idx_like_user"`
	CreatedAt time.Time
}

func (ImageLike) TableName() string { return "image_likes" }

// RefreshTotalLikes 重新统计点赞数并写回 total_likes，需在点赞变更的同一事务内调用
func (img *Image) RefreshTotalLikes(tx *gorm.DB) error {
	var cnt int64
	if err := tx.Model(&ImageLike{}).Where("image_id = ?", img.ID).Count(&cnt).Error; err != nil {
		return err
	}
	if err := tx.Model(img).UpdateColumn("total_likes", cnt).Error; err != nil {
		return err
	}
	img.TotalLikes = cnt
	return nil
}
