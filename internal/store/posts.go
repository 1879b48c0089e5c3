package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tunsmm/diary-network/internal/models"
)

func (s *GormStore) posts(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Author").Preload("Group")
}

func (s *GormStore) CreatePost(ctx context.Context, post *models.Post) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return translate(err)
	}
	// Reload with author and group information
	return translate(s.posts(ctx).First(post, post.ID).Error)
}

func (s *GormStore) FindPostByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	if err := s.posts(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (s *GormStore) UpdatePost(ctx context.Context, id int, changes models.PostChanges) error {
	result := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		Updates(map[string]any{
			"text":     changes.Text,
			"group_id": changes.GroupID,
			"image":    changes.Image,
		})
	return affected(result)
}

func (s *GormStore) DeletePost(ctx context.Context, id int) error {
	return affected(s.db.WithContext(ctx).Delete(&models.Post{}, id))
}

func (s *GormStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	err := s.posts(ctx).Order(FeedOrder).Find(&posts).Error
	return posts, translate(err)
}

func (s *GormStore) FindPostsByAuthorIDs(ctx context.Context, authorIDs []int) ([]models.Post, error) {
	posts := []models.Post{}
	if len(authorIDs) == 0 {
		return posts, nil
	}
	err := s.posts(ctx).Where("author_id IN ?", authorIDs).Order(FeedOrder).Find(&posts).Error
	return posts, translate(err)
}

func (s *GormStore) FindPostsByGroupID(ctx context.Context, groupID int) ([]models.Post, error) {
	posts := []models.Post{}
	err := s.posts(ctx).Where("group_id = ?", groupID).Order(FeedOrder).Find(&posts).Error
	return posts, translate(err)
}

func (s *GormStore) CountPostsByAuthor(ctx context.Context, authorID int) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, translate(err)
}
