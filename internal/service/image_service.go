package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/bookmarks/internal/metrics"
	"github.com/d60-Lab/bookmarks/internal/model"
	"github.com/d60-Lab/bookmarks/internal/repository"
	"github.com/d60-Lab/bookmarks/pkg/logger"
)

// ViewRanker 浏览计数与排行（由 ranking.Store 实现）
type ViewRanker interface {
	RecordView(ctx context.Context, itemID string) (int64, error)
	Top(ctx context.Context, n int) ([]string, error)
}

// CreateImageInput 收藏图片参数
type CreateImageInput struct {
	Title       string `json:"title" binding:"required,max=200" validate:"required,max=200"`
	URL         string `json:"url" binding:"required,url,max=2000" validate:"required,url,max=2000"`
	Description string `json:"description"`
}

// ImageDetail 详情；Views 为 nil 表示排行存储暂不可用
type ImageDetail struct {
	*model.Image
	Views *int64 `json:"views,omitempty"`
}

type ImageService interface {
	Create(ctx context.Context, userID string, in CreateImageInput) (*model.Image, error)
	Get(ctx context.Context, id uint64) (*model.Image, error)
	// Detail 读取图片并计入一次浏览
	Detail(ctx context.Context, id uint64) (*ImageDetail, error)
	Like(ctx context.Context, userID string, imageID uint64) (*model.Image, error)
	Unlike(ctx context.Context, userID string, imageID uint64) (*model.Image, error)
	List(ctx context.Context, page, pageSize int) ([]*model.Image, error)
	ListLikedBy(ctx context.Context, userID string, page, pageSize int) ([]*model.Image, error)
	// Ranking 按浏览排行返回至多 n 张图片，顺序与排行一致
	Ranking(ctx context.Context, n int) ([]*model.Image, error)
}

type imageService struct {
	imageRepo repository.ImageRepository
	ranker    ViewRanker
	actions   ActionService
	validate  *validator.Validate
}

func NewImageService(imageRepo repository.ImageRepository, ranker ViewRanker, actions ActionService) ImageService {
	return &imageService{imageRepo: imageRepo, ranker: ranker, actions: actions, validate: validator.New()}
}

func (s *imageService) Create(ctx context.Context, userID string, in CreateImageInput) (*model.Image, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	img := &model.Image{
		UserID:      userID,
		Title:       in.Title,
		Slug:        Slugify(in.Title),
		URL:         in.URL,
		Description: in.Description,
	}
	if err := s.imageRepo.Create(ctx, img); err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}
	recordQuietly(ctx, s.actions, userID, model.VerbBookmarked, model.ImageTarget{ID: img.ID})
	return img, nil
}

func (s *imageService) Get(ctx context.Context, id uint64) (*model.Image, error) {
	img, err := s.imageRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	return img, nil
}

func (s *imageService) Detail(ctx context.Context, id uint64) (*ImageDetail, error) {
	img, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &ImageDetail{Image: img}
	views, err := s.ranker.RecordView(ctx, imageKey(id))
	if err != nil {
		metrics.RankingErrorsTotal.WithLabelValues("record_view").Inc()
		logger.Warn("record image view failed", zap.Uint64("image", id), zap.Error(err))
		return d, nil
	}
	metrics.ImageViewsTotal.Inc()
	d.Views = &views
	return d, nil
}

func (s *imageService) Like(ctx context.Context, userID string, imageID uint64) (*model.Image, error) {
	img, added, err := s.imageRepo.AddLike(ctx, imageID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("like image: %w", err)
	}
	if added {
		recordQuietly(ctx, s.actions, userID, model.VerbLikes, model.ImageTarget{ID: imageID})
	}
	return img, nil
}

func (s *imageService) Unlike(ctx context.Context, userID string, imageID uint64) (*model.Image, error) {
	img, err := s.imageRepo.RemoveLike(ctx, imageID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unlike image: %w", err)
	}
	return img, nil
}

func (s *imageService) List(ctx context.Context, page, pageSize int) ([]*model.Image, error) {
	offset, limit := paginate(page, pageSize)
	return s.imageRepo.List(ctx, offset, limit)
}

func (s *imageService) ListLikedBy(ctx context.Context, userID string, page, pageSize int) ([]*model.Image, error) {
	offset, limit := paginate(page, pageSize)
	return s.imageRepo.ListLikedBy(ctx, userID, offset, limit)
}

func (s *imageService) Ranking(ctx context.Context, n int) ([]*model.Image, error) {
	keys, err := s.ranker.Top(ctx, n)
	if err != nil {
		metrics.RankingErrorsTotal.WithLabelValues("top").Inc()
		return nil, fmt.Errorf("load ranking: %w", err)
	}
	ids := make([]uint64, 0, len(keys))
	for _, k := range keys {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			logger.Warn("skip malformed ranking member", zap.String("member", k))
			continue
		}
		ids = append(ids, id)
	}
	images, err := s.imageRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load ranked images: %w", err)
	}

	// IN 查询不保证顺序，按排行还原；已删除的图片跳过
	byID := make(map[uint64]*model.Image, len(images))
	for _, img := range images {
		byID[img.ID] = img
	}
	out := make([]*model.Image, 0, len(ids))
	for _, id := range ids {
		if img, ok := byID[id]; ok {
			out = append(out, img)
		}
	}
	return out, nil
}

func imageKey(id uint64) string { return strconv.FormatUint(id, 10) }

// Slugify 把标题转成 URL 友好的 slug：小写字母数字，其余折叠为单个 '-'
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case r == '_' || r == '-' || unicode.IsSpace(r):
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
