package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/bookmarks/internal/service"
	"github.com/d60-Lab/bookmarks/pkg/response"
)

// Handler 汇总各业务 handler 依赖
type Handler struct {
	accountService service.AccountService
	relService     service.RelationshipService
	imageService   service.ImageService
	actionService  service.ActionService
	rankingTopN    int
}

func NewHandler(
	accountService service.AccountService,
	relService service.RelationshipService,
	imageService service.ImageService,
	actionService service.ActionService,
	rankingTopN int,
) *Handler {
	if rankingTopN <= 0 {
		rankingTopN = 10
	}
	return &Handler{
		accountService: accountService,
		relService:     relService,
		imageService:   imageService,
		actionService:  actionService,
		rankingTopN:    rankingTopN,
	}
}

// fail 把业务错误映射到 HTTP 状态
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidAction),
		errors.Is(err, service.ErrFollowSelf):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrImageNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrUserExists):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return page, pageSize
}
