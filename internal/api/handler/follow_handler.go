package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/doremi/pkg/response"
)

type followPairRequest struct {
	UserID       string `json:"userId" binding:"required"`
	TargetUserID string `json:"targetUserId" binding:"required"`
}

func (h *Handler) ToggleFollow(c *gin.Context) {
	var req followPairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	following, err := h.relations.Toggle(c.Request.Context(), req.UserID, req.TargetUserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"isFollowing": following})
}

func (h *Handler) FollowState(c *gin.Context) {
	var req followPairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	following, err := h.relations.State(c.Request.Context(), req.UserID, req.TargetUserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"isFollowing": following})
}

type followCountsRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *Handler) FollowCounts(c *gin.Context) {
	var req followCountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	followers, following, err := h.relations.Counts(c.Request.Context(), req.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"followerCount": followers, "followingCount": following})
}
