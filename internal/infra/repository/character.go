package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ravenridge/questforge/internal/domain"
	"github.com/ravenridge/questforge/internal/infra/database/models"
)

type CharacterRepository struct {
	db *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) *CharacterRepository {
	return &CharacterRepository{db: db}
}

func toCharacter(m models.Character) domain.Character {
	return domain.Character{
		ID:        m.ID,
		AccountID: m.AccountID,
		Name:      m.Name,
		Health:    m.Health,
		Power:     m.Power,
		Money:     m.Money,
	}
}

func (r *CharacterRepository) FindByID(ctx context.Context, id int64) (domain.Character, error) {
	var ch models.Character
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&ch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Character{}, domain.NotFoundError{Resource: "character"}
	}
	if err != nil {
		return domain.Character{}, errors.Wrap(err, "CharacterRepository.FindByID")
	}
	return toCharacter(ch), nil
}

// FindByIDAndOwner scopes the lookup to the owning account. A character that
// exists but belongs to someone else is indistinguishable from one that does
// not exist.
func (r *CharacterRepository) FindByIDAndOwner(ctx context.Context, id int64, accountID int64) (domain.Character, error) {
	var ch models.Character
	err := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		Take(&ch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Character{}, domain.NotFoundError{Resource: "character"}
	}
	if err != nil {
		return domain.Character{}, errors.Wrap(err, "CharacterRepository.FindByIDAndOwner")
	}
	return toCharacter(ch), nil
}

func (r *CharacterRepository) FindByOwnerAndName(ctx context.Context, accountID int64, name string) (domain.Character, error) {
	var ch models.Character
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND name = ?", accountID, name).
		Take(&ch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Character{}, domain.NotFoundError{Resource: "character"}
	}
	if err != nil {
		return domain.Character{}, errors.Wrap(err, "CharacterRepository.FindByOwnerAndName")
	}
	return toCharacter(ch), nil
}

// Create inserts a new character with starting stats. The composite unique
// index on (account_id, name) is the uniqueness authority; a duplicate-key
// translation from the store maps to the same conflict as the pre-check.
func (r *CharacterRepository) Create(ctx context.Context, accountID int64, name string) (domain.Character, error) {
	ch := models.Character{
		AccountID: accountID,
		Name:      name,
		Health:    500,
		Power:     100,
		Money:     10000,
	}
	err := r.db.WithContext(ctx).Create(&ch).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Character{}, domain.ConflictError{Resource: "character name"}
	}
	if err != nil {
		return domain.Character{}, errors.Wrap(err, "CharacterRepository.Create")
	}
	return toCharacter(ch), nil
}

func (r *CharacterRepository) Delete(ctx context.Context, id int64, accountID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		Delete(&models.Character{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "CharacterRepository.Delete")
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "character"}
	}
	return nil
}
