package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/doremi/pkg/response"
)

func (h *Handler) Comments(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}
	tree, err := h.comments.ListTree(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"comments": tree})
}

type createCommentRequest struct {
	PostID int64  `json:"POST_ID" binding:"required"`
	UserID string `json:"USER_ID" binding:"required"`
	Text   string `json:"TEXT" binding:"required"`
}

func (h *Handler) CreateComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if _, err := h.comments.Create(c.Request.Context(), req.PostID, req.UserID, req.Text); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}

type createReplyRequest struct {
	ParentCommentID int64  `json:"PARENT_COMMENT_ID" binding:"required"`
	UserID          string `json:"USER_ID" binding:"required"`
	Text            string `json:"TEXT" binding:"required"`
}

func (h *Handler) CreateReply(c *gin.Context) {
	var req createReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if _, err := h.comments.Reply(c.Request.Context(), req.ParentCommentID, req.UserID, req.Text); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *Handler) DeleteComment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}
	if err := h.comments.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}
