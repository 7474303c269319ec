package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/doremi/internal/service"
	"github.com/d60-Lab/doremi/pkg/response"
)

type loginRequest struct {
	UserID   string `json:"userid" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, u, err := h.auth.Login(c.Request.Context(), req.UserID, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"token": token,
		"user": gin.H{
			"USER_ID":  u.ID,
			"NAME":     u.Name,
			"SEX":      u.Sex,
			"BIRTHSTR": u.BirthStr,
		},
	})
}

type registerRequest struct {
	UserID    string `json:"userid" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Sex       string `json:"sex" binding:"required,oneof=M F"`
	BirthDate string `json:"birthdate" binding:"required,len=8"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		UserID:    req.UserID,
		Password:  req.Password,
		Name:      req.Name,
		Sex:       req.Sex,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *Handler) CheckID(c *gin.Context) {
	userID := c.Query("userid")
	if userID == "" {
		response.BadRequest(c, "userid is required")
		return
	}
	cnt, err := h.auth.CheckID(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"count": cnt})
}

type searchPasswordRequest struct {
	Username  string `json:"username" binding:"required"`
	UserID    string `json:"userid" binding:"required"`
	Sex       string `json:"sex" binding:"required,oneof=M F"`
	BirthDate string `json:"birthdate" binding:"required,len=8"`
}

func (h *Handler) SearchPassword(c *gin.Context) {
	var req searchPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	pw, err := h.auth.ResetPassword(c.Request.Context(), req.Username, req.UserID, req.Sex, req.BirthDate)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"password": pw})
}

func (h *Handler) RecommendedUsers(c *gin.Context) {
	users, err := h.auth.Recommended(c.Request.Context(), c.Param("user_id"), 10)
	if err != nil {
		h.fail(c, err)
		return
	}
	list := make([]gin.H, 0, len(users))
	for _, u := range users {
		list = append(list, gin.H{"USER_ID": u.ID, "NAME": u.Name})
	}
	response.Success(c, gin.H{"users": list})
}
