package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tunsmm/diary-network/internal/feed"
	"github.com/tunsmm/diary-network/internal/store"
)

type GroupHandler struct {
	store    store.GroupRepository
	feed     *feed.Aggregator
	pageSize int
}

func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.store.ListGroups(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "Groups not found", "Failed to fetch groups")
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GroupPosts returns a page of the posts filed under the group
func (h *GroupHandler) GroupPosts(c *gin.Context) {
	ctx := c.Request.Context()
	group, err := h.store.FindGroupBySlug(ctx, c.Param("slug"))
	if err != nil {
		respondStoreError(c, err, "Group not found", "Failed to load group")
		return
	}

	posts, err := h.feed.Group(ctx, group.ID)
	if err != nil {
		respondStoreError(c, err, "Posts not found", "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"group": group,
		"page":  postPage(posts, h.pageSize, c.Query("page")),
	})
}
