package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ravenridge/questforge/internal/domain"
	"github.com/ravenridge/questforge/internal/infra/database/models"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func toItem(m models.Item) domain.Item {
	return domain.Item{
		Code:  m.Code,
		Name:  m.Name,
		Price: m.Price,
		Stat: domain.ItemStat{
			Health: m.Stat.Health,
			Power:  m.Stat.Power,
		},
	}
}

func (r *ItemRepository) Create(ctx context.Context, name string, price int, stat domain.ItemStat) (domain.Item, error) {
	item := models.Item{
		Name:  name,
		Price: price,
		Stat: models.ItemStat{
			Health: stat.Health,
			Power:  stat.Power,
		},
	}
	err := r.db.WithContext(ctx).Create(&item).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Item{}, domain.ConflictError{Resource: "item name"}
	}
	if err != nil {
		return domain.Item{}, errors.Wrap(err, "ItemRepository.Create")
	}
	return toItem(item), nil
}

// Update edits name and stat bonuses. Price is not editable.
func (r *ItemRepository) Update(ctx context.Context, code int64, name string, stat domain.ItemStat) (domain.Item, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		err := tx.Where("item_code = ?", code).Take(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NotFoundError{Resource: "item"}
		}
		if err != nil {
			return err
		}

		err = tx.Model(&models.Item{}).
			Where("item_code = ?", code).
			Update("name", name).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.ItemStat{}).
			Where("item_code = ?", code).
			Updates(map[string]any{
				"health": stat.Health,
				"power":  stat.Power,
			}).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Item{}, err
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Item{}, domain.ConflictError{Resource: "item name"}
		}
		return domain.Item{}, errors.Wrap(err, "ItemRepository.Update")
	}

	return r.FindByCode(ctx, code)
}

func (r *ItemRepository) FindByCode(ctx context.Context, code int64) (domain.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Preload("Stat").
		Where("item_code = ?", code).
		Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Item{}, domain.NotFoundError{Resource: "item"}
	}
	if err != nil {
		return domain.Item{}, errors.Wrap(err, "ItemRepository.FindByCode")
	}
	return toItem(item), nil
}

func (r *ItemRepository) FindByName(ctx context.Context, name string) (domain.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Item{}, domain.NotFoundError{Resource: "item"}
	}
	if err != nil {
		return domain.Item{}, errors.Wrap(err, "ItemRepository.FindByName")
	}
	return toItem(item), nil
}

func (r *ItemRepository) List(ctx context.Context) ([]domain.ItemSummary, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Order("item_code asc").
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "ItemRepository.List")
	}

	summaries := make([]domain.ItemSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, domain.ItemSummary{
			Code:  item.Code,
			Name:  item.Name,
			Price: item.Price,
		})
	}
	return summaries, nil
}
