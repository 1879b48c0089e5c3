package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunsmm/diary-network/internal/models"
	"github.com/tunsmm/diary-network/internal/store"
	"github.com/tunsmm/diary-network/internal/store/memstore"
)

// runContract checks the behaviour every store.Store implementation shares,
// including the cascades the schema declares.
func runContract(t *testing.T, newStore func(t *testing.T) store.Store) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	user := func(t *testing.T, s store.Store, name string) models.User {
		t.Helper()
		u := models.User{Username: name, Email: name + "@example.com", Password: "hash"}
		require.NoError(t, s.CreateUser(context.Background(), &u))
		return u
	}
	post := func(t *testing.T, s store.Store, author models.User, text string, at time.Time, group *models.Group) models.Post {
		t.Helper()
		p := models.Post{Text: text, AuthorID: author.ID, PubDate: at}
		if group != nil {
			p.GroupID = &group.ID
		}
		require.NoError(t, s.CreatePost(context.Background(), &p))
		return p
	}

	t.Run("unique users", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		user(t, s, "alice")

		err := s.CreateUser(ctx, &models.User{Username: "alice", Email: "other@example.com", Password: "x"})
		assert.ErrorIs(t, err, store.ErrConflict)
		err = s.CreateUser(ctx, &models.User{Username: "other", Email: "alice@example.com", Password: "x"})
		assert.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("not found", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		_, err := s.FindUserByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.FindPostByID(ctx, 42)
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.FindGroupBySlug(ctx, "none")
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.FindCommentByID(ctx, 7)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, s.DeletePost(ctx, 42), store.ErrNotFound)
		assert.ErrorIs(t, s.DeleteComment(ctx, 7), store.ErrNotFound)
		assert.ErrorIs(t, s.UpdatePost(ctx, 42, models.PostChanges{Text: "x"}), store.ErrNotFound)
	})

	t.Run("update user", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		alice := user(t, s, "alice")
		user(t, s, "bob")

		alice.FirstName = "Alice"
		alice.Bio = "diarist"
		require.NoError(t, s.UpdateUser(ctx, &alice))

		got, err := s.FindUserByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.FirstName)
		assert.Equal(t, "diarist", got.Bio)

		alice.Email = "bob@example.com"
		assert.ErrorIs(t, s.UpdateUser(ctx, &alice), store.ErrConflict)
	})

	t.Run("post listings are newest first", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		alice := user(t, s, "alice")
		bob := user(t, s, "bob")
		carol := user(t, s, "carol")

		post(t, s, alice, "a-old", base, nil)
		post(t, s, bob, "b-mid", base.Add(time.Hour), nil)
		post(t, s, alice, "a-new", base.Add(2*time.Hour), nil)
		post(t, s, carol, "c-tie", base.Add(2*time.Hour), nil)

		all, err := s.ListPosts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"c-tie", "a-new", "b-mid", "a-old"}, postTexts(all))

		some, err := s.FindPostsByAuthorIDs(ctx, []int{alice.ID, bob.ID})
		require.NoError(t, err)
		assert.Equal(t, []string{"a-new", "b-mid", "a-old"}, postTexts(some))
		assert.Equal(t, "alice", some[0].Author.Username)

		none, err := s.FindPostsByAuthorIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, none)

		n, err := s.CountPostsByAuthor(ctx, alice.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})

	t.Run("update post keeps pub date", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		alice := user(t, s, "alice")
		group := models.Group{Title: "Cats", Slug: "cats"}
		require.NoError(t, s.CreateGroup(ctx, &group))
		p := post(t, s, alice, "draft", base, nil)

		image := "/media/cat.png"
		require.NoError(t, s.UpdatePost(ctx, p.ID, models.PostChanges{Text: "final", GroupID: &group.ID, Image: &image}))

		got, err := s.FindPostByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "final", got.Text)
		assert.True(t, base.Equal(got.PubDate), "pub date changed to %s", got.PubDate)
		require.NotNil(t, got.Group)
		assert.Equal(t, "cats", got.Group.Slug)
		require.NotNil(t, got.Image)
		assert.Equal(t, image, *got.Image)

		require.NoError(t, s.UpdatePost(ctx, p.ID, models.PostChanges{Text: "final"}))
		got, err = s.FindPostByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Nil(t, got.GroupID)
		assert.Nil(t, got.Image)
	})

	t.Run("comments are newest first", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		alice := user(t, s, "alice")
		bob := user(t, s, "bob")
		p := post(t, s, alice, "post", base, nil)

		for i, text := range []string{"first", "second"} {
			c := models.Comment{Text: text, AuthorID: bob.ID, PostID: p.ID, Created: base.Add(time.Duration(i) * time.Minute)}
			require.NoError(t, s.CreateComment(ctx, &c))
		}

		comments, err := s.FindCommentsByPostID(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "second", comments[0].Text)
		assert.Equal(t, "bob", comments[0].Author.Username)
	})

	t.Run("follow pairs are unique", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		alice := user(t, s, "alice")
		bob := user(t, s, "bob")

		created, err := s.CreateFollow(ctx, &models.Follow{UserID: alice.ID, AuthorID: bob.ID})
		require.NoError(t, err)
		assert.True(t, created)

		created, err = s.CreateFollow(ctx, &models.Follow{UserID: alice.ID, AuthorID: bob.ID})
		require.NoError(t, err)
		assert.False(t, created)

		_, err = s.CreateFollow(ctx, &models.Follow{UserID: alice.ID, AuthorID: alice.ID})
		assert.Error(t, err, "self follow")

		n, err := s.CountFollowEdges(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		ids, err := s.FindFollowedAuthorIDs(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []int{bob.ID}, ids)

		removed, err := s.DeleteFollow(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, removed)
		removed, err = s.DeleteFollow(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Zero(t, removed)
	})

	t.Run("deleting a user cascades", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		alice := user(t, s, "alice")
		bob := user(t, s, "bob")
		ap := post(t, s, alice, "by alice", base, nil)
		bp := post(t, s, bob, "by bob", base, nil)
		require.NoError(t, s.CreateComment(ctx, &models.Comment{Text: "on bob", AuthorID: alice.ID, PostID: bp.ID}))
		require.NoError(t, s.CreateComment(ctx, &models.Comment{Text: "on alice", AuthorID: bob.ID, PostID: ap.ID}))
		_, err := s.CreateFollow(ctx, &models.Follow{UserID: bob.ID, AuthorID: alice.ID})
		require.NoError(t, err)

		require.NoError(t, s.DeleteUser(ctx, alice.ID))

		_, err = s.FindPostByID(ctx, ap.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
		comments, err := s.FindCommentsByPostID(ctx, bp.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
		following, err := s.CountFollowing(ctx, bob.ID)
		require.NoError(t, err)
		assert.Zero(t, following)
		_, err = s.FindPostByID(ctx, bp.ID)
		assert.NoError(t, err)
	})

	t.Run("deleting a group cascades", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		alice := user(t, s, "alice")
		group := models.Group{Title: "Cats", Slug: "cats"}
		require.NoError(t, s.CreateGroup(ctx, &group))
		inGroup := post(t, s, alice, "cat", base, &group)
		loose := post(t, s, alice, "dog", base, nil)
		require.NoError(t, s.CreateComment(ctx, &models.Comment{Text: "meow", AuthorID: alice.ID, PostID: inGroup.ID}))

		require.NoError(t, s.DeleteGroup(ctx, group.ID))

		_, err := s.FindPostByID(ctx, inGroup.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
		comments, err := s.FindCommentsByPostID(ctx, inGroup.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
		_, err = s.FindPostByID(ctx, loose.ID)
		assert.NoError(t, err)
	})

	t.Run("groups", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.CreateGroup(ctx, &models.Group{Title: "Zoo", Slug: "zoo"}))
		cats := models.Group{Title: "Cats", Slug: "cats"}
		require.NoError(t, s.CreateGroup(ctx, &cats))
		assert.ErrorIs(t, s.CreateGroup(ctx, &models.Group{Title: "Dup", Slug: "cats"}), store.ErrConflict)

		groups, err := s.ListGroups(ctx)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, "Cats", groups[0].Title)

		cats.Description = "felines"
		require.NoError(t, s.UpdateGroup(ctx, &cats))
		got, err := s.FindGroupByID(ctx, cats.ID)
		require.NoError(t, err)
		assert.Equal(t, "felines", got.Description)

		cats.Slug = "zoo"
		assert.ErrorIs(t, s.UpdateGroup(ctx, &cats), store.ErrConflict)
	})
}

func postTexts(posts []models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Text)
	}
	return out
}

func TestMemStore(t *testing.T) {
	runContract(t, func(*testing.T) store.Store { return memstore.New() })
}
