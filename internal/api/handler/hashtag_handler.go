package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/doremi/pkg/response"
)

func (h *Handler) AutocompleteHashtags(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	rows, err := h.hashtags.Autocomplete(c.Request.Context(), c.Query("search"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"hashtags": rows})
}

func (h *Handler) SearchByHashtag(c *gin.Context) {
	ids, err := h.hashtags.PostIDsByName(c.Request.Context(), c.Param("name"))
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

func (h *Handler) PostHashtags(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}
	tags, err := h.hashtags.TagsByPost(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"hashtags": tags})
}
