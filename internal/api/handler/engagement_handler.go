package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/doremi/internal/envelope"
	"github.com/d60-Lab/doremi/internal/service"
	"github.com/d60-Lab/doremi/pkg/response"
)

func (h *Handler) LikeStatus(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}
	userID := c.Query("User_id")
	liked, err := h.engagements.LikeStatus(c.Request.Context(), id, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"isLiked": liked})
}

func (h *Handler) ToggleLike(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}
	userID := c.Query("User_id")
	if userID == "" {
		response.BadRequest(c, "User_id is required")
		return
	}
	liked, err := h.engagements.ToggleLike(c.Request.Context(), id, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"isLiked": liked})
}

func (h *Handler) TotalLikes(c *gin.Context) {
	total, err := h.engagements.LikesReceived(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"totalLikes": total})
}

// The bookmark routes answer with the nested envelope generation.

type bookmarkRequest struct {
	PostID int64  `json:"postId" binding:"required"`
	UserID string `json:"userId" binding:"required"`
}

func (h *Handler) bookmarkFail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrPostGone) {
		response.Nested(c, false, err.Error(), envelope.FallbackMessage)
		return
	}
	h.fail(c, err)
}

func (h *Handler) CheckBookmark(c *gin.Context) {
	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	marked, err := h.engagements.CheckBookmark(c.Request.Context(), req.PostID, req.UserID)
	if err != nil {
		h.bookmarkFail(c, err)
		return
	}
	response.Success(c, gin.H{"isBookmarked": marked})
}

func (h *Handler) AddBookmark(c *gin.Context) {
	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.engagements.AddBookmark(c.Request.Context(), req.PostID, req.UserID); err != nil {
		h.bookmarkFail(c, err)
		return
	}
	response.Nested(c, true, "북마크에 추가되었습니다.", "")
}

func (h *Handler) DeleteBookmark(c *gin.Context) {
	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.engagements.DeleteBookmark(c.Request.Context(), req.PostID, req.UserID); err != nil {
		h.bookmarkFail(c, err)
		return
	}
	response.Nested(c, true, "북마크에서 삭제되었습니다.", "")
}

type bookmarkListRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *Handler) Bookmarks(c *gin.Context) {
	var req bookmarkListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ids, err := h.engagements.BookmarkedPostIDs(c.Request.Context(), req.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	views, err := h.posts.ViewsByIDs(c.Request.Context(), ids)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"posts": views})
}
