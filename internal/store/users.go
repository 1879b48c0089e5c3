package store

import (
	"context"

	"github.com/tunsmm/diary-network/internal/models"
)

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *GormStore) FindUserByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUsersByIDs(ctx context.Context, ids []int) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("username").Find(&users).Error
	return users, translate(err)
}

func (s *GormStore) UpdateUser(ctx context.Context, user *models.User) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]any{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"bio":        user.Bio,
		})
	return affected(result)
}

func (s *GormStore) DeleteUser(ctx context.Context, id int) error {
	return affected(s.db.WithContext(ctx).Delete(&models.User{}, id))
}
