package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/bookmarks/internal/api/middleware"
	"github.com/d60-Lab/bookmarks/internal/service"
	"github.com/d60-Lab/bookmarks/pkg/response"
)

type loginRequest struct {
	// 用户名或邮箱
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 注册
// @Summary 注册账号
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "注册信息"
// @Success 201 {object} response.Response{data=model.User}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/account/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.accountService.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, u)
}

// Login 登录，用户名或邮箱均可
// @Summary 登录
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 401 {object} response.Response
// @Router /api/v1/account/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, u, err := h.accountService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"token": token, "user": u})
}

// ListUsers 用户列表
// @Summary 用户列表
// @Tags 账号
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := pageParams(c)
	users, err := h.accountService.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": users})
}

// GetUser 用户详情
// @Summary 用户详情
// @Tags 账号
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=model.User}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{user_id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.accountService.GetUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, u)
}

// Dashboard 当前用户的动态流：有关注则只看关注的人
// @Summary 动态流
// @Tags 动态
// @Security BearerAuth
// @Param limit query int false "条数" default(10)
// @Success 200 {object} response.Response{data=[]service.FeedEntry}
// @Router /api/v1/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	uid := middleware.UserID(c)
	limit := queryInt(c, "limit", 0)
	if limit > service.MaxFeedLimit {
		limit = service.MaxFeedLimit
	}
	actions, err := h.actionService.RecentFeed(c.Request.Context(), uid, uid, limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	entries, err := h.actionService.Hydrate(c.Request.Context(), actions)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, entries)
}
