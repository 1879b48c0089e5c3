// Package feed builds the reverse-chronological post listings: the home
// feed, profile and group feeds, and the personal feed of followed authors.
package feed

import (
	"context"
	"fmt"

	"github.com/tunsmm/diary-network/internal/models"
)

// Repository is the storage the aggregator needs.
type Repository interface {
	FindFollowedAuthorIDs(ctx context.Context, userID int) ([]int, error)
	FindPostsByAuthorIDs(ctx context.Context, authorIDs []int) ([]models.Post, error)
	FindPostsByGroupID(ctx context.Context, groupID int) ([]models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
}

// Aggregator returns full, unpaginated sequences ordered by publication
// date descending, ties broken by descending post ID.
type Aggregator struct {
	repo Repository
}

func NewAggregator(repo Repository) *Aggregator {
	return &Aggregator{repo: repo}
}

// BuildFollowingFeed returns the posts of every author userID follows. A
// user who follows nobody gets an empty feed.
func (a *Aggregator) BuildFollowingFeed(ctx context.Context, userID int) ([]models.Post, error) {
	authorIDs, err := a.repo.FindFollowedAuthorIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve followed authors of %d: %w", userID, err)
	}
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}

	posts, err := a.repo.FindPostsByAuthorIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("load following feed of %d: %w", userID, err)
	}
	return posts, nil
}

// Home returns every post.
func (a *Aggregator) Home(ctx context.Context) ([]models.Post, error) {
	posts, err := a.repo.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load home feed: %w", err)
	}
	return posts, nil
}

// Profile returns the posts written by authorID.
func (a *Aggregator) Profile(ctx context.Context, authorID int) ([]models.Post, error) {
	posts, err := a.repo.FindPostsByAuthorIDs(ctx, []int{authorID})
	if err != nil {
		return nil, fmt.Errorf("load profile feed of %d: %w", authorID, err)
	}
	return posts, nil
}

// Group returns the posts filed under groupID.
func (a *Aggregator) Group(ctx context.Context, groupID int) ([]models.Post, error) {
	posts, err := a.repo.FindPostsByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("load group feed of %d: %w", groupID, err)
	}
	return posts, nil
}
