package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ravenridge/questforge/internal/domain"
	"github.com/ravenridge/questforge/internal/infra/database/models"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (domain.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Account{}, domain.NotFoundError{Resource: "account"}
	}
	if err != nil {
		return domain.Account{}, errors.Wrap(err, "AccountRepository.FindByID")
	}

	return domain.Account{
		ID:        account.ID,
		LoginName: account.LoginName,
		Password:  account.Password,
	}, nil
}
