package usecase

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ravenridge/questforge/internal/domain"
)

// ItemRepository defines storage operations for the item catalog.
type ItemRepository interface {
	Create(ctx context.Context, name string, price int, stat domain.ItemStat) (domain.Item, error)
	Update(ctx context.Context, code int64, name string, stat domain.ItemStat) (domain.Item, error)
	FindByCode(ctx context.Context, code int64) (domain.Item, error)
	FindByName(ctx context.Context, name string) (domain.Item, error)
	List(ctx context.Context) ([]domain.ItemSummary, error)
}

type ItemUsecase struct {
	repo ItemRepository
}

func NewItemUsecase(repo ItemRepository) *ItemUsecase {
	return &ItemUsecase{repo: repo}
}

// Create adds a catalog entry with its stat bonuses. Item names are globally
// unique; there is no visibility distinction anywhere in the catalog.
func (uc *ItemUsecase) Create(ctx context.Context, name string, price int, stat domain.ItemStat) (domain.Item, error) {
	if name == "" {
		return domain.Item{}, domain.ValidationError{Field: "item_name", Reason: "item name is required"}
	}
	if price == 0 {
		return domain.Item{}, domain.ValidationError{Field: "item_price", Reason: "item price is required"}
	}

	_, err := uc.repo.FindByName(ctx, name)
	if err == nil {
		return domain.Item{}, domain.ConflictError{Resource: "item name"}
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Item{}, err
	}

	return uc.repo.Create(ctx, name, price, stat)
}

// Update edits an item's name and stat bonuses. Price is intentionally not
// editable.
func (uc *ItemUsecase) Update(ctx context.Context, code int64, name string, stat domain.ItemStat) (domain.Item, error) {
	if name == "" {
		return domain.Item{}, domain.ValidationError{Field: "item_name", Reason: "item name is required"}
	}
	return uc.repo.Update(ctx, code, name, stat)
}

func (uc *ItemUsecase) Get(ctx context.Context, code int64) (domain.Item, error) {
	return uc.repo.FindByCode(ctx, code)
}

func (uc *ItemUsecase) List(ctx context.Context) ([]domain.ItemSummary, error) {
	return uc.repo.List(ctx)
}
