package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tunsmm/diary-network/internal/models"
	"github.com/tunsmm/diary-network/internal/store"
)

type CommentHandler struct {
	store store.Store
	guard *guard
	posts *postLoader
}

// CreateComment adds a comment by the current user to a post
func (h *CommentHandler) CreateComment(c *gin.Context) {
	me, ok := currentIdentity(c)
	if !ok {
		return
	}
	post, ok := h.posts.load(c)
	if !ok {
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBind(&input); err != nil || strings.TrimSpace(input.Text) == "" {
		invalidForm(c, map[string]string{"text": "This field is required."})
		return
	}

	comment := models.Comment{
		Text:     strings.TrimSpace(input.Text),
		AuthorID: me.ID,
		PostID:   post.ID,
	}
	if err := h.store.CreateComment(c.Request.Context(), &comment); err != nil {
		respondStoreError(c, err, "Post not found", "Failed to create comment")
		return
	}

	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// DeleteComment deletes a comment. Only the comment's author may do so,
// whoever owns the post; anyone else is sent back to the post.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	me, ok := currentIdentity(c)
	if !ok {
		return
	}
	post, ok := h.posts.load(c)
	if !ok {
		return
	}

	commentID, err := strconv.Atoi(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	ctx := c.Request.Context()
	comment, err := h.store.FindCommentByID(ctx, commentID)
	if err != nil {
		respondStoreError(c, err, "Comment not found", "Failed to load comment")
		return
	}
	if comment.PostID != post.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if !h.guard.allow(c, me, identityOf(comment.Author), PostURL(post.Author.Username, post.ID)) {
		return
	}

	if err := h.store.DeleteComment(ctx, comment.ID); err != nil {
		respondStoreError(c, err, "Comment not found", "Failed to delete comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Comment deleted successfully",
		"location": PostURL(post.Author.Username, post.ID),
	})
}
