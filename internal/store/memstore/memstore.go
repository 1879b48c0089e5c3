// Package memstore is an in-memory store.Store used by tests and local
// tooling. It replicates the constraints the relational schema declares:
// unique usernames, emails, group slugs and follow pairs, foreign keys, and
// ON DELETE CASCADE.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tunsmm/diary-network/internal/models"
	"github.com/tunsmm/diary-network/internal/store"
)

type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	lastID   map[string]int
	users    map[int]models.User
	groups   map[int]models.Group
	posts    map[int]models.Post
	comments map[int]models.Comment
	follows  map[int]models.Follow
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		now:      func() time.Time { return time.Now().UTC() },
		lastID:   make(map[string]int),
		users:    make(map[int]models.User),
		groups:   make(map[int]models.Group),
		posts:    make(map[int]models.Post),
		comments: make(map[int]models.Comment),
		follows:  make(map[int]models.Follow),
	}
}

// SetClock replaces the time source used for creation timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) nextID(table string) int {
	s.lastID[table]++
	return s.lastID[table]
}

// Users

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return store.ErrConflict
		}
	}
	now := s.now()
	user.ID = s.nextID("users")
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *Store) FindUserByID(_ context.Context, id int) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindUsersByIDs(_ context.Context, ids []int) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []models.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *Store) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.ID]
	if !ok {
		return store.ErrNotFound
	}
	for id, u := range s.users {
		if id != user.ID && u.Email == user.Email {
			return store.ErrConflict
		}
	}
	current.FirstName = user.FirstName
	current.LastName = user.LastName
	current.Email = user.Email
	current.Bio = user.Bio
	current.UpdatedAt = s.now()
	s.users[user.ID] = current
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, id)
	for pid, p := range s.posts {
		if p.AuthorID == id {
			s.deletePostLocked(pid)
		}
	}
	for cid, c := range s.comments {
		if c.AuthorID == id {
			delete(s.comments, cid)
		}
	}
	for fid, f := range s.follows {
		if f.UserID == id || f.AuthorID == id {
			delete(s.follows, fid)
		}
	}
	return nil
}

// Groups

func (s *Store) CreateGroup(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.groups {
		if g.Slug == group.Slug {
			return store.ErrConflict
		}
	}
	group.ID = s.nextID("groups")
	s.groups[group.ID] = *group
	return nil
}

func (s *Store) FindGroupBySlug(_ context.Context, slug string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.groups {
		if g.Slug == slug {
			return &g, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindGroupByID(_ context.Context, id int) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &g, nil
}

func (s *Store) ListGroups(_ context.Context) ([]models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]models.Group, 0, len(s.groups))
	for _, g := range s.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Title < groups[j].Title })
	return groups, nil
}

func (s *Store) UpdateGroup(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[group.ID]; !ok {
		return store.ErrNotFound
	}
	for id, g := range s.groups {
		if id != group.ID && g.Slug == group.Slug {
			return store.ErrConflict
		}
	}
	s.groups[group.ID] = *group
	return nil
}

func (s *Store) DeleteGroup(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.groups, id)
	for pid, p := range s.posts {
		if p.GroupID != nil && *p.GroupID == id {
			s.deletePostLocked(pid)
		}
	}
	return nil
}

// Posts

func (s *Store) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.AuthorID]; !ok {
		return fmt.Errorf("memstore: post author %d does not exist", post.AuthorID)
	}
	if post.GroupID != nil {
		if _, ok := s.groups[*post.GroupID]; !ok {
			return fmt.Errorf("memstore: post group %d does not exist", *post.GroupID)
		}
	}
	post.ID = s.nextID("posts")
	if post.PubDate.IsZero() {
		post.PubDate = s.now()
	}
	row := *post
	row.Author = models.User{}
	row.Group = nil
	s.posts[post.ID] = row
	*post = s.hydratePostLocked(row)
	return nil
}

func (s *Store) FindPostByID(_ context.Context, id int) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p = s.hydratePostLocked(p)
	return &p, nil
}

func (s *Store) UpdatePost(_ context.Context, id int, changes models.PostChanges) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return store.ErrNotFound
	}
	if changes.GroupID != nil {
		if _, ok := s.groups[*changes.GroupID]; !ok {
			return fmt.Errorf("memstore: post group %d does not exist", *changes.GroupID)
		}
	}
	p.Text = changes.Text
	p.GroupID = changes.GroupID
	p.Image = changes.Image
	s.posts[id] = p
	return nil
}

func (s *Store) DeletePost(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return store.ErrNotFound
	}
	s.deletePostLocked(id)
	return nil
}

func (s *Store) ListPosts(_ context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.selectPostsLocked(func(models.Post) bool { return true }), nil
}

func (s *Store) FindPostsByAuthorIDs(_ context.Context, authorIDs []int) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[int]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		wanted[id] = struct{}{}
	}
	return s.selectPostsLocked(func(p models.Post) bool {
		_, ok := wanted[p.AuthorID]
		return ok
	}), nil
}

func (s *Store) FindPostsByGroupID(_ context.Context, groupID int) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.selectPostsLocked(func(p models.Post) bool {
		return p.GroupID != nil && *p.GroupID == groupID
	}), nil
}

func (s *Store) CountPostsByAuthor(_ context.Context, authorID int) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (s *Store) selectPostsLocked(keep func(models.Post) bool) []models.Post {
	posts := []models.Post{}
	for _, p := range s.posts {
		if keep(p) {
			posts = append(posts, s.hydratePostLocked(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].PubDate.Equal(posts[j].PubDate) {
			return posts[i].PubDate.After(posts[j].PubDate)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts
}

func (s *Store) hydratePostLocked(p models.Post) models.Post {
	p.Author = s.users[p.AuthorID]
	p.Group = nil
	if p.GroupID != nil {
		if g, ok := s.groups[*p.GroupID]; ok {
			p.Group = &g
		}
	}
	return p
}

func (s *Store) deletePostLocked(id int) {
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
}

// Comments

func (s *Store) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[comment.AuthorID]; !ok {
		return fmt.Errorf("memstore: comment author %d does not exist", comment.AuthorID)
	}
	if _, ok := s.posts[comment.PostID]; !ok {
		return fmt.Errorf("memstore: comment post %d does not exist", comment.PostID)
	}
	comment.ID = s.nextID("comments")
	if comment.Created.IsZero() {
		comment.Created = s.now()
	}
	row := *comment
	row.Author = models.User{}
	row.Post = nil
	s.comments[comment.ID] = row
	comment.Author = s.users[comment.AuthorID]
	return nil
}

func (s *Store) FindCommentByID(_ context.Context, id int) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c.Author = s.users[c.AuthorID]
	return &c, nil
}

func (s *Store) FindCommentsByPostID(_ context.Context, postID int) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := []models.Comment{}
	for _, c := range s.comments {
		if c.PostID == postID {
			c.Author = s.users[c.AuthorID]
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].Created.Equal(comments[j].Created) {
			return comments[i].Created.After(comments[j].Created)
		}
		return comments[i].ID > comments[j].ID
	})
	return comments, nil
}

func (s *Store) DeleteComment(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

// Follows

func (s *Store) CountFollowEdges(_ context.Context, userID, authorID int) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, f := range s.follows {
		if f.UserID == userID && f.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (s *Store) CreateFollow(_ context.Context, follow *models.Follow) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if follow.UserID == follow.AuthorID {
		return false, fmt.Errorf("memstore: follow %d -> %d violates chk_follows_no_self", follow.UserID, follow.AuthorID)
	}
	for _, id := range []int{follow.UserID, follow.AuthorID} {
		if _, ok := s.users[id]; !ok {
			return false, fmt.Errorf("memstore: follow user %d does not exist", id)
		}
	}
	for _, f := range s.follows {
		if f.UserID == follow.UserID && f.AuthorID == follow.AuthorID {
			return false, nil
		}
	}
	follow.ID = s.nextID("follows")
	if follow.CreatedAt.IsZero() {
		follow.CreatedAt = s.now()
	}
	s.follows[follow.ID] = *follow
	return true, nil
}

func (s *Store) DeleteFollow(_ context.Context, userID, authorID int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, f := range s.follows {
		if f.UserID == userID && f.AuthorID == authorID {
			delete(s.follows, id)
			n++
		}
	}
	return n, nil
}

func (s *Store) CountFollowers(_ context.Context, authorID int) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, f := range s.follows {
		if f.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountFollowing(_ context.Context, userID int) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, f := range s.follows {
		if f.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *Store) FindFollowedAuthorIDs(_ context.Context, userID int) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.edgeIDsLocked(func(f models.Follow) (int, bool) { return f.AuthorID, f.UserID == userID }), nil
}

func (s *Store) FindFollowerIDs(_ context.Context, authorID int) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.edgeIDsLocked(func(f models.Follow) (int, bool) { return f.UserID, f.AuthorID == authorID }), nil
}

// edgeIDsLocked returns the picked endpoint of matching edges in insertion
// order.
func (s *Store) edgeIDsLocked(pick func(models.Follow) (int, bool)) []int {
	edges := make([]models.Follow, 0)
	for _, f := range s.follows {
		if _, ok := pick(f); ok {
			edges = append(edges, f)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	ids := make([]int, 0, len(edges))
	for _, f := range edges {
		id, _ := pick(f)
		ids = append(ids, id)
	}
	return ids
}
