package store

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/tunsmm/diary-network/internal/models"
)

func (s *GormStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return translate(err)
	}
	return translate(s.db.WithContext(ctx).Preload("Author").First(comment, comment.ID).Error)
}

func (s *GormStore) FindCommentByID(ctx context.Context, id int) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (s *GormStore) FindCommentsByPostID(ctx context.Context, postID int) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := s.db.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postID).
		Order("created desc, id desc").
		Find(&comments).Error
	return comments, translate(err)
}

func (s *GormStore) DeleteComment(ctx context.Context, id int) error {
	return affected(s.db.WithContext(ctx).Delete(&models.Comment{}, id))
}
