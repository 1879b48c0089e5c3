// Package store defines the persistence interfaces of the diary network and
// their gorm implementation.
package store

import (
	"context"
	"errors"

	"github.com/tunsmm/diary-network/internal/models"
)

var (
	// ErrNotFound is returned when a lookup key matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a unique constraint.
	ErrConflict = errors.New("unique constraint violated")
)

// FeedOrder is the ordering of every post listing: newest first, ties
// broken by the most recently inserted row.
const FeedOrder = "pub_date desc, id desc"

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id int) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUsersByIDs(ctx context.Context, ids []int) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int) error
}

type GroupRepository interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	FindGroupBySlug(ctx context.Context, slug string) (*models.Group, error)
	FindGroupByID(ctx context.Context, id int) (*models.Group, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	UpdateGroup(ctx context.Context, group *models.Group) error
	// DeleteGroup removes the group and every post filed under it.
	DeleteGroup(ctx context.Context, id int) error
}

type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	FindPostByID(ctx context.Context, id int) (*models.Post, error)
	UpdatePost(ctx context.Context, id int, changes models.PostChanges) error
	DeletePost(ctx context.Context, id int) error
	ListPosts(ctx context.Context) ([]models.Post, error)
	FindPostsByAuthorIDs(ctx context.Context, authorIDs []int) ([]models.Post, error)
	FindPostsByGroupID(ctx context.Context, groupID int) ([]models.Post, error)
	CountPostsByAuthor(ctx context.Context, authorID int) (int64, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	FindCommentByID(ctx context.Context, id int) (*models.Comment, error)
	FindCommentsByPostID(ctx context.Context, postID int) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id int) error
}

type FollowRepository interface {
	// CountFollowEdges counts edges userID -> authorID. The unique index
	// keeps the result at 0 or 1.
	CountFollowEdges(ctx context.Context, userID, authorID int) (int64, error)
	// CreateFollow inserts the edge unless it already exists and reports
	// whether a row was written.
	CreateFollow(ctx context.Context, follow *models.Follow) (bool, error)
	DeleteFollow(ctx context.Context, userID, authorID int) (int64, error)
	CountFollowers(ctx context.Context, authorID int) (int64, error)
	CountFollowing(ctx context.Context, userID int) (int64, error)
	FindFollowedAuthorIDs(ctx context.Context, userID int) ([]int, error)
	FindFollowerIDs(ctx context.Context, authorID int) ([]int, error)
}

// Store bundles every repository. Both GormStore and memstore.Store
// implement it.
type Store interface {
	UserRepository
	GroupRepository
	PostRepository
	CommentRepository
	FollowRepository
}
