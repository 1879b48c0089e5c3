package store

import (
	"context"

	"github.com/tunsmm/diary-network/internal/models"
)

func (s *GormStore) CreateGroup(ctx context.Context, group *models.Group) error {
	return translate(s.db.WithContext(ctx).Create(group).Error)
}

func (s *GormStore) FindGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, translate(err)
	}
	return &group, nil
}

func (s *GormStore) FindGroupByID(ctx context.Context, id int) (*models.Group, error) {
	var group models.Group
	if err := s.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, translate(err)
	}
	return &group, nil
}

func (s *GormStore) ListGroups(ctx context.Context) ([]models.Group, error) {
	groups := []models.Group{}
	err := s.db.WithContext(ctx).Order("title").Find(&groups).Error
	return groups, translate(err)
}

func (s *GormStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	result := s.db.WithContext(ctx).Model(&models.Group{}).Where("id = ?", group.ID).
		Updates(map[string]any{
			"title":       group.Title,
			"slug":        group.Slug,
			"description": group.Description,
		})
	return affected(result)
}

func (s *GormStore) DeleteGroup(ctx context.Context, id int) error {
	return affected(s.db.WithContext(ctx).Delete(&models.Group{}, id))
}
