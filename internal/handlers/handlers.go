package handlers

import (
	"github.com/tunsmm/diary-network/internal/auth"
	"github.com/tunsmm/diary-network/internal/authz"
	"github.com/tunsmm/diary-network/internal/feed"
	"github.com/tunsmm/diary-network/internal/follow"
	"github.com/tunsmm/diary-network/internal/media"
	"github.com/tunsmm/diary-network/internal/pagination"
	"github.com/tunsmm/diary-network/internal/store"
)

// Deps are the collaborators shared by every handler.
type Deps struct {
	Store    store.Store
	Tokens   *auth.TokenIssuer
	Uploader *media.Uploader
	Policy   authz.Policy
	PageSize int
}

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Post    *PostHandler
	Comment *CommentHandler
	User    *UserHandler
	Group   *GroupHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(d Deps) *Handler {
	if d.PageSize <= 0 {
		d.PageSize = pagination.DefaultPageSize
	}
	follows := follow.NewManager(d.Store)
	feeds := feed.NewAggregator(d.Store)
	guard := &guard{policy: d.Policy}
	posts := &postLoader{store: d.Store}

	return &Handler{
		Auth: NewAuthHandler(d.Store, d.Tokens),
		Post: &PostHandler{
			store:    d.Store,
			feed:     feeds,
			follows:  follows,
			uploader: d.Uploader,
			guard:    guard,
			posts:    posts,
			pageSize: d.PageSize,
		},
		Comment: &CommentHandler{store: d.Store, guard: guard, posts: posts},
		User: &UserHandler{
			store:    d.Store,
			feed:     feeds,
			follows:  follows,
			guard:    guard,
			pageSize: d.PageSize,
		},
		Group: &GroupHandler{store: d.Store, feed: feeds, pageSize: d.PageSize},
	}
}
