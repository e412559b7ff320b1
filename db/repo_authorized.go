package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/saga-aleeka/saga-store/models"
)

func (r *Repo) FindAuthorizedUserByToken(ctx context.Context, token string) (*models.AuthorizedUser, error) {
	var u models.AuthorizedUser
	if err := r.DB.WithContext(ctx).First(&u, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
