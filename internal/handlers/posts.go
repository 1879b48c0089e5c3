package handlers

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tunsmm/diary-network/internal/feed"
	"github.com/tunsmm/diary-network/internal/follow"
	"github.com/tunsmm/diary-network/internal/media"
	"github.com/tunsmm/diary-network/internal/models"
	"github.com/tunsmm/diary-network/internal/store"
)

type PostHandler struct {
	store    store.Store
	feed     *feed.Aggregator
	follows  *follow.Manager
	uploader *media.Uploader
	guard    *guard
	posts    *postLoader
	pageSize int
}

// postForm is the post create/edit form. Multipart requests may also carry
// an "image" file.
type postForm struct {
	Text       string `form:"text" json:"text" binding:"required"`
	GroupID    *int   `form:"group_id" json:"group_id"`
	ImageClear bool   `form:"image_clear" json:"image_clear"`
}

// bindPostForm validates the form and uploads the image, if any. On failure
// it answers 400 and returns false; nothing has been written yet.
func (h *PostHandler) bindPostForm(c *gin.Context, current *string) (models.PostChanges, bool) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			invalidForm(c, map[string]string{"text": "This field is required."})
		} else {
			invalidForm(c, map[string]string{"form": err.Error()})
		}
		return models.PostChanges{}, false
	}
	form.Text = strings.TrimSpace(form.Text)
	if form.Text == "" {
		invalidForm(c, map[string]string{"text": "This field is required."})
		return models.PostChanges{}, false
	}

	changes := models.PostChanges{Text: form.Text, Image: current}
	if form.ImageClear {
		changes.Image = nil
	}

	ctx := c.Request.Context()
	if form.GroupID != nil && *form.GroupID != 0 {
		if _, err := h.store.FindGroupByID(ctx, *form.GroupID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				invalidForm(c, map[string]string{"group_id": "Select a valid choice."})
			} else {
				respondStoreError(c, err, "Group not found", "Failed to load group")
			}
			return models.PostChanges{}, false
		}
		changes.GroupID = form.GroupID
	}

	if fh, err := c.FormFile("image"); err == nil {
		ref, err := h.uploadImage(ctx, c, fh)
		if err != nil {
			return models.PostChanges{}, false
		}
		changes.Image = &ref
	}
	return changes, true
}

func (h *PostHandler) uploadImage(ctx context.Context, c *gin.Context, fh *multipart.FileHeader) (string, error) {
	if h.uploader == nil {
		invalidForm(c, map[string]string{"image": "Image uploads are disabled."})
		return "", errors.New("uploads disabled")
	}
	ref, err := h.uploader.Upload(ctx, fh)
	switch {
	case errors.Is(err, media.ErrNotImage):
		invalidForm(c, map[string]string{"image": "Upload a valid image. The file you uploaded was either not an image or a corrupted image."})
	case errors.Is(err, media.ErrTooLarge):
		invalidForm(c, map[string]string{"image": "The uploaded image is too large."})
	case err != nil:
		log.Printf("upload image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
	}
	return ref, err
}

// discardImage removes an image no post refers to any more. Failures are
// logged only; the post change has already been answered.
func (h *PostHandler) discardImage(ctx context.Context, ref *string) {
	if ref == nil || h.uploader == nil {
		return
	}
	if err := h.uploader.Remove(ctx, *ref); err != nil {
		log.Printf("discard image: %v", err)
	}
}

func sameImage(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Index returns the home feed: every post, newest first.
func (h *PostHandler) Index(c *gin.Context) {
	posts, err := h.feed.Home(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "Posts not found", "Failed to fetch posts")
		return
	}
	c.JSON(http.StatusOK, postPage(posts, h.pageSize, c.Query("page")))
}

// FollowIndex returns the posts of the authors the current user follows.
func (h *PostHandler) FollowIndex(c *gin.Context) {
	me, ok := currentIdentity(c)
	if !ok {
		return
	}

	posts, err := h.feed.BuildFollowingFeed(c.Request.Context(), me.ID)
	if err != nil {
		respondStoreError(c, err, "Posts not found", "Failed to fetch feed")
		return
	}
	c.JSON(http.StatusOK, postPage(posts, h.pageSize, c.Query("page")))
}

// CreatePost creates a new post authored by the current user
func (h *PostHandler) CreatePost(c *gin.Context) {
	me, ok := currentIdentity(c)
	if !ok {
		return
	}

	changes, ok := h.bindPostForm(c, nil)
	if !ok {
		return
	}

	post := models.Post{
		Text:     changes.Text,
		AuthorID: me.ID,
		GroupID:  changes.GroupID,
		Image:    changes.Image,
	}
	ctx := c.Request.Context()
	if err := h.store.CreatePost(ctx, &post); err != nil {
		h.discardImage(ctx, changes.Image)
		respondStoreError(c, err, "Post not found", "Failed to create post")
		return
	}

	c.Header("Location", PostURL(me.Username, post.ID))
	c.JSON(http.StatusCreated, toPostResponse(post))
}

// GetPost returns a single post with its comments and its author's stats
func (h *PostHandler) GetPost(c *gin.Context) {
	me, ok := currentIdentity(c)
	if !ok {
		return
	}
	post, ok := h.posts.load(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	comments, err := h.store.FindCommentsByPostID(ctx, post.ID)
	if err != nil {
		respondStoreError(c, err, "Comments not found", "Failed to fetch comments")
		return
	}
	postsCount, err := h.store.CountPostsByAuthor(ctx, post.AuthorID)
	if err != nil {
		respondStoreError(c, err, "Posts not found", "Failed to count posts")
		return
	}
	stats, err := h.follows.StatsFor(ctx, post.AuthorID, me.ID)
	if err != nil {
		respondStoreError(c, err, "User not found", "Failed to load follow stats")
		return
	}

	commentList := make([]CommentResponse, 0, len(comments))
	for _, cm := range comments {
		commentList = append(commentList, toCommentResponse(cm))
	}

	c.JSON(http.StatusOK, gin.H{
		"post":        toPostResponse(*post),
		"profile":     post.Author.Public(),
		"posts_count": postsCount,
		"comments":    commentList,
		"followers":   stats.Followers,
		"follows":     stats.Follows,
		"following":   stats.IsFollowing,
	})
}

// UpdatePost edits a post. Anyone but the author is sent back to the post.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	me, ok := currentIdentity(c)
	if !ok {
		return
	}
	post, ok := h.posts.load(c)
	if !ok {
		return
	}
	if !h.guard.allow(c, me, identityOf(post.Author), PostURL(post.Author.Username, post.ID)) {
		return
	}

	changes, ok := h.bindPostForm(c, post.Image)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	replaced := !sameImage(post.Image, changes.Image)
	if err := h.store.UpdatePost(ctx, post.ID, changes); err != nil {
		if replaced {
			h.discardImage(ctx, changes.Image)
		}
		respondStoreError(c, err, "Post not found", "Failed to update post")
		return
	}
	if replaced {
		h.discardImage(ctx, post.Image)
	}
	updated, err := h.store.FindPostByID(ctx, post.ID)
	if err != nil {
		respondStoreError(c, err, "Post not found", "Failed to load post")
		return
	}

	c.JSON(http.StatusOK, toPostResponse(*updated))
}

// DeletePost deletes a post and its comments. Anyone but the author is sent
// back to the post.
func (h *PostHandler) DeletePost(c *gin.Context) {
	me, ok := currentIdentity(c)
	if !ok {
		return
	}
	post, ok := h.posts.load(c)
	if !ok {
		return
	}
	if !h.guard.allow(c, me, identityOf(post.Author), PostURL(post.Author.Username, post.ID)) {
		return
	}

	ctx := c.Request.Context()
	if err := h.store.DeletePost(ctx, post.ID); err != nil {
		respondStoreError(c, err, "Post not found", "Failed to delete post")
		return
	}
	h.discardImage(ctx, post.Image)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Post deleted successfully",
		"location": ProfileURL(me.Username),
	})
}
