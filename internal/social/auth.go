package social

import (
	"context"
	"net/url"

	"github.com/d60-Lab/doremi/internal/session"
)

// LoginRequest is the login payload.
type LoginRequest struct {
	UserID   string `json:"userid" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token   string        `json:"token"`
	User    *session.User `json:"user"`
	Message string        `json:"message"`
}

// Login authenticates and returns the token plus the user snapshot.
func (a *API) Login(ctx context.Context, req LoginRequest) (string, session.User, error) {
	if err := a.checkInput(req); err != nil {
		return "", session.User{}, err
	}
	body, err := settleEnvelope(a.c.Post(ctx, "/user/login", nil, req))
	if err != nil {
		return "", session.User{}, err
	}
	var out loginResponse
	if err := unmarshal(body, &out); err != nil {
		return "", session.User{}, err
	}
	u := session.User{}
	if out.User != nil {
		u = *out.User
	}
	return out.Token, u, nil
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	UserID    string `json:"userid" validate:"required,min=3,max=20"`
	Password  string `json:"password" validate:"required,min=4"`
	Name      string `json:"name" validate:"required"`
	Sex       string `json:"sex" validate:"required,oneof=M F"`
	BirthDate string `json:"birthdate" validate:"required,len=8,numeric"`
}

// Register creates an account.
func (a *API) Register(ctx context.Context, req RegisterRequest) error {
	if err := a.checkInput(req); err != nil {
		return err
	}
	_, err := settleEnvelope(a.c.Post(ctx, "/user/register", nil, req))
	return err
}

type checkIDResponse struct {
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// CheckID reports whether a user id is still available (count == 0).
func (a *API) CheckID(ctx context.Context, userID string) (bool, error) {
	q := url.Values{}
	q.Set("userid", userID)
	body, err := settleEnvelope(a.c.Get(ctx, "/user/checkid", q))
	if err != nil {
		return false, err
	}
	var out checkIDResponse
	if err := unmarshal(body, &out); err != nil {
		return false, err
	}
	return out.Count == 0, nil
}

// SearchPasswordRequest identifies the account to recover.
type SearchPasswordRequest struct {
	Username  string `json:"username" validate:"required"`
	UserID    string `json:"userid" validate:"required"`
	Sex       string `json:"sex" validate:"required,oneof=M F"`
	BirthDate string `json:"birthdate" validate:"required,len=8,numeric"`
}

// SearchPassword recovers a forgotten password.
func (a *API) SearchPassword(ctx context.Context, req SearchPasswordRequest) (string, error) {
	if err := a.checkInput(req); err != nil {
		return "", err
	}
	body, err := settleEnvelope(a.c.Post(ctx, "/user/searchpassword", nil, req))
	if err != nil {
		return "", err
	}
	var out struct {
		Password string `json:"password"`
	}
	if err := unmarshal(body, &out); err != nil {
		return "", err
	}
	return out.Password, nil
}

// RecommendedUsers lists users the viewer might follow.
func (a *API) RecommendedUsers(ctx context.Context, userID string) ([]UserSummary, error) {
	body, err := settleEnvelope(a.c.Get(ctx, "/user/recommended/"+url.PathEscape(userID), nil))
	if err != nil {
		return nil, err
	}
	var out struct {
		Users []UserSummary `json:"users"`
	}
	if err := unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}
