// Package api wires the HTTP surface of the stub server: the same routes,
// envelopes and status codes the production backend answers with.
package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/d60-Lab/doremi/internal/api/handler"
	"github.com/d60-Lab/doremi/internal/api/middleware"
)

// Options tunes router construction.
type Options struct {
	JWTSecret string
	Debug     bool
}

// NewRouter builds the gin engine with every route mounted under /api.
func NewRouter(h *handler.Handler, log *zap.Logger, opts Options) *gin.Engine {
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(otelgin.Middleware("doremi-stub"))

	api := r.Group("/api")
	auth := middleware.RequireAuth(opts.JWTSecret)

	user := api.Group("/user")
	{
		user.POST("/login", h.Login)
		user.POST("/register", h.Register)
		user.GET("/checkid", h.CheckID)
		user.POST("/searchpassword", h.SearchPassword)
		user.GET("/recommended/:user_id", h.RecommendedUsers)
	}

	posts := api.Group("/posts")
	{
		posts.GET("/:post_id", h.GetPost)
		posts.GET("/user/:user_id", h.PostsByUser)
		posts.GET("/recommended/:user_id", h.RecommendedPosts)
		posts.GET("/following/:user_id", h.FollowingPosts)
		posts.POST("", auth, h.CreatePost)
		posts.DELETE("/:post_id", auth, h.DeletePost)
	}

	likes := api.Group("/likes")
	{
		likes.GET("/posts/:post_id", h.LikeStatus)
		likes.POST("/posts/:post_id", auth, h.ToggleLike)
		likes.GET("/users/:user_id/received", h.TotalLikes)
	}

	bookmarks := api.Group("/bookmarks", auth)
	{
		bookmarks.POST("/check", h.CheckBookmark)
		bookmarks.POST("/add", h.AddBookmark)
		bookmarks.POST("/delete", h.DeleteBookmark)
		bookmarks.POST("/list", h.Bookmarks)
	}

	follow := api.Group("/follow")
	{
		follow.POST("", auth, h.ToggleFollow)
		follow.POST("/state", h.FollowState)
		follow.POST("/counts", h.FollowCounts)
	}

	comments := api.Group("/comments")
	{
		comments.GET("/posts/:post_id", h.Comments)
		comments.POST("", auth, h.CreateComment)
		comments.POST("/reply", auth, h.CreateReply)
		comments.DELETE("/:comment_id", auth, h.DeleteComment)
	}

	hashtags := api.Group("/hashtags")
	{
		hashtags.GET("/auto", h.AutocompleteHashtags)
		hashtags.GET("/search/:name", h.SearchByHashtag)
		hashtags.GET("/post/:post_id", h.PostHashtags)
	}

	return r
}
