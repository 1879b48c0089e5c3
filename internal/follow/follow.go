// Package follow manages the directed follow graph between users.
package follow

import (
	"context"
	"fmt"

	"github.com/tunsmm/diary-network/internal/models"
	"github.com/tunsmm/diary-network/internal/store"
)

// Repository is the storage the manager needs.
type Repository interface {
	store.FollowRepository
	FindUsersByIDs(ctx context.Context, ids []int) ([]models.User, error)
}

type Manager struct {
	repo Repository
}

func NewManager(repo Repository) *Manager {
	return &Manager{repo: repo}
}

// Follow makes follower receive target's posts. Following yourself or an
// author you already follow is a no-op; the returned bool reports whether
// an edge was created.
func (m *Manager) Follow(ctx context.Context, follower, target int) (bool, error) {
	if follower == target {
		return false, nil
	}
	exists, err := m.IsFollowing(ctx, follower, target)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	// A concurrent request may have inserted the edge since the check; the
	// unique index turns that insert into a no-op.
	created, err := m.repo.CreateFollow(ctx, &models.Follow{UserID: follower, AuthorID: target})
	if err != nil {
		return false, fmt.Errorf("create follow %d -> %d: %w", follower, target, err)
	}
	return created, nil
}

// Unfollow removes the edge follower -> target if there is one. The
// returned bool reports whether an edge was removed.
func (m *Manager) Unfollow(ctx context.Context, follower, target int) (bool, error) {
	exists, err := m.IsFollowing(ctx, follower, target)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	n, err := m.repo.DeleteFollow(ctx, follower, target)
	if err != nil {
		return false, fmt.Errorf("delete follow %d -> %d: %w", follower, target, err)
	}
	return n > 0, nil
}

// IsFollowing reports whether the edge user -> author exists.
func (m *Manager) IsFollowing(ctx context.Context, user, author int) (bool, error) {
	n, err := m.repo.CountFollowEdges(ctx, user, author)
	if err != nil {
		return false, fmt.Errorf("count follow edges %d -> %d: %w", user, author, err)
	}
	return n > 0, nil
}

func (m *Manager) FollowerCount(ctx context.Context, author int) (int64, error) {
	n, err := m.repo.CountFollowers(ctx, author)
	if err != nil {
		return 0, fmt.Errorf("count followers of %d: %w", author, err)
	}
	return n, nil
}

func (m *Manager) FollowingCount(ctx context.Context, user int) (int64, error) {
	n, err := m.repo.CountFollowing(ctx, user)
	if err != nil {
		return 0, fmt.Errorf("count following of %d: %w", user, err)
	}
	return n, nil
}

// Followers lists the users following author, ordered by username.
func (m *Manager) Followers(ctx context.Context, author int) ([]models.User, error) {
	ids, err := m.repo.FindFollowerIDs(ctx, author)
	if err != nil {
		return nil, fmt.Errorf("list followers of %d: %w", author, err)
	}
	return m.repo.FindUsersByIDs(ctx, ids)
}

// Following lists the authors user follows, ordered by username.
func (m *Manager) Following(ctx context.Context, user int) ([]models.User, error) {
	ids, err := m.repo.FindFollowedAuthorIDs(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list following of %d: %w", user, err)
	}
	return m.repo.FindUsersByIDs(ctx, ids)
}

// Stats are the follow counters shown on a profile.
type Stats struct {
	Followers   int64 `json:"followers"`
	Follows     int64 `json:"follows"`
	IsFollowing bool  `json:"is_following"`
}

// StatsFor collects the counters of profile as seen by viewer.
func (m *Manager) StatsFor(ctx context.Context, profile, viewer int) (Stats, error) {
	var stats Stats
	var err error
	if stats.Followers, err = m.FollowerCount(ctx, profile); err != nil {
		return Stats{}, err
	}
	if stats.Follows, err = m.FollowingCount(ctx, profile); err != nil {
		return Stats{}, err
	}
	if stats.IsFollowing, err = m.IsFollowing(ctx, viewer, profile); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
