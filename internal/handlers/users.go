package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tunsmm/diary-network/internal/feed"
	"github.com/tunsmm/diary-network/internal/follow"
	"github.com/tunsmm/diary-network/internal/models"
	"github.com/tunsmm/diary-network/internal/store"
)

type UserHandler struct {
	store    store.Store
	feed     *feed.Aggregator
	follows  *follow.Manager
	guard    *guard
	pageSize int
}

func (h *UserHandler) lookup(c *gin.Context) (*models.User, bool) {
	user, err := h.store.FindUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondStoreError(c, err, "User not found", "Failed to load user")
		return nil, false
	}
	return user, true
}

// GetUserProfile returns a user's profile with a page of their posts
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	me, ok := currentIdentity(c)
	if !ok {
		return
	}
	user, ok := h.lookup(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	posts, err := h.feed.Profile(ctx, user.ID)
	if err != nil {
		respondStoreError(c, err, "Posts not found", "Failed to fetch posts")
		return
	}
	stats, err := h.follows.StatsFor(ctx, user.ID, me.ID)
	if err != nil {
		respondStoreError(c, err, "User not found", "Failed to load follow stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":     user.Public(),
		"posts_count": len(posts),
		"page":        postPage(posts, h.pageSize, c.Query("page")),
		"followers":   stats.Followers,
		"follows":     stats.Follows,
		"following":   stats.IsFollowing,
	})
}

// UpdateUserProfile edits the current user's own profile. Editing anyone
// else's profile sends the caller back to that profile.
func (h *UserHandler) UpdateUserProfile(c *gin.Context) {
	me, ok := currentIdentity(c)
	if !ok {
		return
	}
	user, ok := h.lookup(c)
	if !ok {
		return
	}
	if !h.guard.allow(c, me, identityOf(*user), ProfileURL(user.Username)) {
		return
	}

	var input models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidForm(c, map[string]string{"form": err.Error()})
		return
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	if err := h.store.UpdateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			invalidForm(c, map[string]string{"email": "A user with that email already exists."})
			return
		}
		respondStoreError(c, err, "User not found", "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, user.Public())
}

// FollowUser subscribes the current user to the named author. Following
// yourself or someone you already follow changes nothing.
func (h *UserHandler) FollowUser(c *gin.Context) {
	me, ok := currentIdentity(c)
	if !ok {
		return
	}
	author, ok := h.lookup(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	changed, err := h.follows.Follow(ctx, me.ID, author.ID)
	if err != nil {
		respondStoreError(c, err, "User not found", "Failed to follow user")
		return
	}
	h.respondFollowState(c, me.ID, author, changed)
}

// UnfollowUser removes the subscription, if any.
func (h *UserHandler) UnfollowUser(c *gin.Context) {
	me, ok := currentIdentity(c)
	if !ok {
		return
	}
	author, ok := h.lookup(c)
	if !ok {
		return
	}

	changed, err := h.follows.Unfollow(c.Request.Context(), me.ID, author.ID)
	if err != nil {
		respondStoreError(c, err, "User not found", "Failed to unfollow user")
		return
	}
	h.respondFollowState(c, me.ID, author, changed)
}

func (h *UserHandler) respondFollowState(c *gin.Context, me int, author *models.User, changed bool) {
	following, err := h.follows.IsFollowing(c.Request.Context(), me, author.ID)
	if err != nil {
		respondStoreError(c, err, "User not found", "Failed to load follow state")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"author":    author.Username,
		"following": following,
		"changed":   changed,
		"location":  ProfileURL(author.Username),
	})
}

// GetFollowers returns the users following the named user
func (h *UserHandler) GetFollowers(c *gin.Context) {
	user, ok := h.lookup(c)
	if !ok {
		return
	}
	users, err := h.follows.Followers(c.Request.Context(), user.ID)
	if err != nil {
		respondStoreError(c, err, "User not found", "Failed to fetch followers")
		return
	}
	c.JSON(http.StatusOK, publicUsers(users))
}

// GetFollowing returns the users the named user follows
func (h *UserHandler) GetFollowing(c *gin.Context) {
	user, ok := h.lookup(c)
	if !ok {
		return
	}
	users, err := h.follows.Following(c.Request.Context(), user.ID)
	if err != nil {
		respondStoreError(c, err, "User not found", "Failed to fetch following")
		return
	}
	c.JSON(http.StatusOK, publicUsers(users))
}
