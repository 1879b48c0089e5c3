package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tunsmm/diary-network/internal/authz"
	"github.com/tunsmm/diary-network/internal/middleware"
	"github.com/tunsmm/diary-network/internal/models"
	"github.com/tunsmm/diary-network/internal/pagination"
	"github.com/tunsmm/diary-network/internal/store"
)

// PostURL is the read-only view of a post.
func PostURL(username string, postID int) string {
	return fmt.Sprintf("/api/users/%s/posts/%d", url.PathEscape(username), postID)
}

// ProfileURL is the read-only view of a profile.
func ProfileURL(username string) string {
	return "/api/users/" + url.PathEscape(username)
}

func currentIdentity(c *gin.Context) (authz.Identity, bool) {
	me, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	}
	return me, ok
}

// respondStoreError answers 404 for ErrNotFound and 500 otherwise.
func respondStoreError(c *gin.Context, err error, notFound, failure string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
		return
	}
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": failure})
}

func invalidForm(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form input", "fields": fields})
}

// guard applies the ownership rule and answers refused mutations.
type guard struct {
	policy authz.Policy
}

// allow reports whether acting may mutate a resource of owner. When it may
// not, the response has already been written: a redirect to fallback or an
// access-denied error, depending on the policy.
func (g *guard) allow(c *gin.Context, acting, owner authz.Identity, fallback string) bool {
	if authz.CanMutate(acting, owner) {
		return true
	}
	if g.policy == authz.PolicyDeny {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only change your own content"})
		return false
	}
	c.Redirect(http.StatusSeeOther, fallback)
	return false
}

func identityOf(u models.User) authz.Identity {
	return authz.Identity{ID: u.ID, Username: u.Username}
}

// PostResponse is the public representation of a post.
type PostResponse struct {
	ID      int               `json:"id"`
	Text    string            `json:"text"`
	PubDate time.Time         `json:"pub_date"`
	Author  models.PublicUser `json:"author"`
	Group   *models.Group     `json:"group,omitempty"`
	Image   *string           `json:"image,omitempty"`
}

func toPostResponse(p models.Post) PostResponse {
	return PostResponse{
		ID:      p.ID,
		Text:    p.Text,
		PubDate: p.PubDate,
		Author:  p.Author.Public(),
		Group:   p.Group,
		Image:   p.Image,
	}
}

func postPage(posts []models.Post, size int, raw string) pagination.Response[PostResponse] {
	page := pagination.Paginate(posts, size, raw)
	items := make([]PostResponse, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, toPostResponse(p))
	}
	return pagination.Page[PostResponse]{Items: items, Meta: page.Meta}.Response()
}

type CommentResponse struct {
	ID      int               `json:"id"`
	Text    string            `json:"text"`
	Created time.Time         `json:"created"`
	Author  models.PublicUser `json:"author"`
	PostID  int               `json:"post_id"`
}

func toCommentResponse(cm models.Comment) CommentResponse {
	return CommentResponse{
		ID:      cm.ID,
		Text:    cm.Text,
		Created: cm.Created,
		Author:  cm.Author.Public(),
		PostID:  cm.PostID,
	}
}

func publicUsers(users []models.User) []models.PublicUser {
	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out
}

// postLoader resolves the /users/:username/posts/:id path pair.
type postLoader struct {
	store store.Store
}

// load returns the post only if it exists and was written by the user named
// in the path; otherwise it answers 404 and returns false.
func (l *postLoader) load(c *gin.Context) (*models.Post, bool) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return nil, false
	}

	ctx := c.Request.Context()
	author, err := l.store.FindUserByUsername(ctx, c.Param("username"))
	if err != nil {
		respondStoreError(c, err, "User not found", "Failed to load user")
		return nil, false
	}

	post, err := l.store.FindPostByID(ctx, postID)
	if err != nil {
		respondStoreError(c, err, "Post not found", "Failed to load post")
		return nil, false
	}
	if post.AuthorID != author.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return nil, false
	}
	return post, true
}
