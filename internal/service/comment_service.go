package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/doremi/internal/model"
	"github.com/d60-Lab/doremi/internal/repository"
)

var (
	ErrEmptyComment   = errors.New("댓글 내용을 입력해주세요.")
	ErrReplyToReply   = errors.New("답글은 댓글에만 작성할 수 있습니다.")
	ErrCommentMissing = errors.New("존재하지 않는 댓글입니다.")
)

// CommentView is a comment as the API presents it, with replies populated on
// top-level comments only.
type CommentView struct {
	CommentID       int64          `json:"COMMENT_ID"`
	ParentCommentID *int64         `json:"PARENT_COMMENT_ID"`
	CreatedAt       string         `json:"CREATED_AT"`
	PostID          int64          `json:"POST_ID"`
	UserID          string         `json:"USER_ID"`
	Text            string         `json:"TEXT"`
	Username        string         `json:"username,omitempty"`
	Replies         []*CommentView `json:"replies,omitempty"`
}

type CommentService interface {
	ListTree(ctx context.Context, postID int64) ([]*CommentView, error)
	Create(ctx context.Context, postID int64, userID, text string) (int64, error)
	Reply(ctx context.Context, parentCommentID int64, userID, text string) (int64, error)
	Delete(ctx context.Context, commentID int64) error
}

type commentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	users    repository.UserRepository
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, users repository.UserRepository) CommentService {
	return &commentService{comments: comments, posts: posts, users: users}
}

func (s *commentService) ListTree(ctx context.Context, postID int64) ([]*CommentView, error) {
	rows, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	view := func(c *model.Comment) *CommentView {
		if _, ok := names[c.UserID]; !ok {
			if u, err := s.users.GetByID(ctx, c.UserID); err == nil {
				names[c.UserID] = u.Name
			} else {
				names[c.UserID] = ""
			}
		}
		return &CommentView{
			CommentID:       c.CommentID,
			ParentCommentID: c.ParentCommentID,
			CreatedAt:       c.CreatedAt.Format(time.RFC3339),
			PostID:          c.PostID,
			UserID:          c.UserID,
			Text:            c.Text,
			Username:        names[c.UserID],
		}
	}

	roots := make([]*CommentView, 0)
	byID := make(map[int64]*CommentView)
	for _, c := range rows {
		if c.ParentCommentID == nil {
			v := view(c)
			byID[c.CommentID] = v
			roots = append(roots, v)
		}
	}
	for _, c := range rows {
		if c.ParentCommentID == nil {
			continue
		}
		if parent, ok := byID[*c.ParentCommentID]; ok {
			parent.Replies = append(parent.Replies, view(c))
		}
	}
	return roots, nil
}

func (s *commentService) Create(ctx context.Context, postID int64, userID, text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrEmptyComment
	}
	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrPostGone
	}
	c := &model.Comment{PostID: postID, UserID: userID, Text: text}
	if err := s.comments.Create(ctx, c); err != nil {
		return 0, err
	}
	return c.CommentID, nil
}

func (s *commentService) Reply(ctx context.Context, parentCommentID int64, userID, text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrEmptyComment
	}
	parent, err := s.comments.GetByID(ctx, parentCommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCommentMissing
		}
		return 0, err
	}
	// Depth caps at two: replying to a reply is rejected.
	if parent.ParentCommentID != nil {
		return 0, ErrReplyToReply
	}
	pid := parent.CommentID
	c := &model.Comment{ParentCommentID: &pid, PostID: parent.PostID, UserID: userID, Text: text}
	if err := s.comments.Create(ctx, c); err != nil {
		return 0, err
	}
	return c.CommentID, nil
}

func (s *commentService) Delete(ctx context.Context, commentID int64) error {
	if _, err := s.comments.GetByID(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentMissing
		}
		return err
	}
	return s.comments.Delete(ctx, commentID)
}
