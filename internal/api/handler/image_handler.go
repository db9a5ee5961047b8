package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/bookmarks/internal/api/middleware"
	"github.com/d60-Lab/bookmarks/internal/model"
	"github.com/d60-Lab/bookmarks/internal/service"
	"github.com/d60-Lab/bookmarks/pkg/logger"
	"github.com/d60-Lab/bookmarks/pkg/response"
)

// CreateImage 收藏外部图片
// @Summary 收藏图片
// @Tags 图片
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateImageInput true "图片信息"
// @Success 201 {object} response.Response{data=model.Image}
// @Failure 400 {object} response.Response
// @Router /api/v1/images [post]
func (h *Handler) CreateImage(c *gin.Context) {
	var req service.CreateImageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	img, err := h.imageService.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, img)
}

// ListImages 图片列表（新到旧）
// @Summary 图片列表
// @Tags 图片
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/images [get]
func (h *Handler) ListImages(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, err := h.imageService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// ImageDetail 图片详情，每次访问计一次浏览
// @Summary 图片详情
// @Tags 图片
// @Param id path int true "图片ID"
// @Success 200 {object} response.Response{data=service.ImageDetail}
// @Failure 404 {object} response.Response
// @Router /api/v1/images/{id} [get]
func (h *Handler) ImageDetail(c *gin.Context) {
	id, ok := imageID(c)
	if !ok {
		return
	}
	d, err := h.imageService.Detail(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, d)
}

// ImageRanking 浏览排行
// @Summary 浏览排行
// @Tags 图片
// @Param n query int false "条数" default(10)
// @Success 200 {object} response.Response{data=[]model.Image}
// @Router /api/v1/images/ranking [get]
func (h *Handler) ImageRanking(c *gin.Context) {
	n := queryInt(c, "n", h.rankingTopN)
	if n > 100 {
		n = 100
	}
	list, err := h.imageService.Ranking(c.Request.Context(), n)
	if err != nil {
		// 排行只是展示数据，存储不可用时返回空列表
		logger.Warn("image ranking unavailable", zap.Error(err))
		list = []*model.Image{}
	}
	response.Success(c, list)
}

// LikeImage 点赞
// @Summary 点赞图片
// @Tags 图片
// @Security BearerAuth
// @Param id path int true "图片ID"
// @Success 200 {object} response.Response{data=model.Image}
// @Failure 404 {object} response.Response
// @Router /api/v1/images/{id}/like [post]
func (h *Handler) LikeImage(c *gin.Context) {
	id, ok := imageID(c)
	if !ok {
		return
	}
	img, err := h.imageService.Like(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, img)
}

// UnlikeImage 取消点赞
// @Summary 取消点赞
// @Tags 图片
// @Security BearerAuth
// @Param id path int true "图片ID"
// @Success 200 {object} response.Response{data=model.Image}
// @Failure 404 {object} response.Response
// @Router /api/v1/images/{id}/unlike [post]
func (h *Handler) UnlikeImage(c *gin.Context) {
	id, ok := imageID(c)
	if !ok {
		return
	}
	img, err := h.imageService.Unlike(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, img)
}

// ListLikedImages 某用户点赞过的图片
// @Summary 用户点赞的图片
// @Tags 图片
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{user_id}/likes [get]
func (h *Handler) ListLikedImages(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, err := h.imageService.ListLikedBy(c.Request.Context(), c.Param("user_id"), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

func imageID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid image id")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
