package store

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/tunsmm/diary-network/internal/models"
)

func (s *GormStore) CountFollowEdges(ctx context.Context, userID, authorID int) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count, translate(err)
}

func (s *GormStore) CreateFollow(ctx context.Context, follow *models.Follow) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(follow)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) DeleteFollow(ctx context.Context, userID, authorID int) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	return result.RowsAffected, translate(result.Error)
}

func (s *GormStore) CountFollowers(ctx context.Context, authorID int) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, translate(err)
}

func (s *GormStore) CountFollowing(ctx context.Context, userID int) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).Where("user_id = ?", userID).Count(&count).Error
	return count, translate(err)
}

func (s *GormStore) FindFollowedAuthorIDs(ctx context.Context, userID int) ([]int, error) {
	ids := []int{}
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("author_id", &ids).Error
	return ids, translate(err)
}

func (s *GormStore) FindFollowerIDs(ctx context.Context, authorID int) ([]int, error) {
	ids := []int{}
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("author_id = ?", authorID).
		Order("id").
		Pluck("user_id", &ids).Error
	return ids, translate(err)
}
