package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/doremi/pkg/response"
)

func parsePostID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return 0, false
	}
	return id, true
}

func (h *Handler) GetPost(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}
	view, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"post": view})
}

func (h *Handler) PostsByUser(c *gin.Context) {
	views, err := h.posts.ListByUser(c.Request.Context(), c.Param("user_id"), 50)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"posts": views})
}

func (h *Handler) RecommendedPosts(c *gin.Context) {
	views, err := h.posts.Recommended(c.Request.Context(), c.Param("user_id"), 50)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"posts": views})
}

func (h *Handler) FollowingPosts(c *gin.Context) {
	views, err := h.posts.Following(c.Request.Context(), c.Param("user_id"), 50)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"posts": views})
}

type createPostRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Hashtags string `json:"hashtags"`
	ImageDir string `json:"imageDir"`
}

func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	id, err := h.posts.Publish(c.Request.Context(), req.UserID, req.Content, req.Hashtags, req.ImageDir)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"POST_ID": id})
}

type deletePostRequest struct {
	UserID string `json:"USER_ID" binding:"required"`
}

func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}
	var req deletePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.posts.Delete(c.Request.Context(), id, req.UserID); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}
