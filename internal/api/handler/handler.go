package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/doremi/internal/service"
	"github.com/d60-Lab/doremi/pkg/response"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	auth        service.AuthService
	posts       service.PostService
	comments    service.CommentService
	engagements service.EngagementService
	relations   service.RelationshipService
	hashtags    service.HashtagService
	log         *zap.Logger
}

func New(
	auth service.AuthService,
	posts service.PostService,
	comments service.CommentService,
	engagements service.EngagementService,
	relations service.RelationshipService,
	hashtags service.HashtagService,
	log *zap.Logger,
) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		auth:        auth,
		posts:       posts,
		comments:    comments,
		engagements: engagements,
		relations:   relations,
		hashtags:    hashtags,
		log:         log,
	}
}

// fail maps service errors onto the flat envelope with the right status.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostGone), errors.Is(err, service.ErrCommentMissing):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrUserIDTaken),
		errors.Is(err, service.ErrAccountMismatch),
		errors.Is(err, service.ErrFollowSelf),
		errors.Is(err, service.ErrEmptyComment),
		errors.Is(err, service.ErrReplyToReply):
		response.BadRequest(c, err.Error())
	default:
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.InternalError(c, err)
	}
}
