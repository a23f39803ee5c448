package usecase

import (
	"context"
	"errors"
	"testing"

	"cpq_engine/internal/domain/entities"
	"cpq_engine/internal/domain/pricing"
	mock_interfaces "cpq_engine/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestCatalogUseCase_ListAndGet(t *testing.T) {
	uc := NewCatalogUseCase(testCatalogStore(t), nil, nil)
	ctx := context.Background()

	all, err := uc.ListProducts(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("unexpected list: %d %v", len(all), err)
	}
	if all[0].ID != "P1" || all[1].ID != "P2" {
		t.Fatalf("load order not kept: %+v", all)
	}
	alsoAll, _ := uc.ListProducts(ctx, "all")
	if len(alsoAll) != 3 {
		t.Fatalf("expected 'all' to list everything")
	}

	addons, err := uc.ListProducts(ctx, "ai_addon")
	if err != nil || len(addons) != 1 || addons[0].ID != "P2" {
		t.Fatalf("unexpected addons: %+v %v", addons, err)
	}

	if _, err := uc.ListProducts(ctx, "hardware"); !errors.Is(err, entities.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if _, err := uc.GetProduct(ctx, "P1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.GetProduct(ctx, "nope"); !errors.Is(err, entities.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogUseCase_Reload(t *testing.T) {
	ctx := context.Background()

	t.Run("provider not configured", func(t *testing.T) {
		uc := NewCatalogUseCase(pricing.NewCatalogStore(nil), nil, nil)
		if _, err := uc.Reload(ctx); !errors.Is(err, ErrCatalogProviderNotConfigured) {
			t.Fatalf("expected ErrCatalogProviderNotConfigured, got %v", err)
		}
	})

	t.Run("provider error keeps catalog", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		provider := mock_interfaces.NewMockICatalogProvider(ctrl)
		store := testCatalogStore(t)
		uc := NewCatalogUseCase(store, provider, nil)

		provider.EXPECT().LoadProducts(gomock.Any()).Return(nil, errors.New("s3 down"))

		if _, err := uc.Reload(ctx); err == nil {
			t.Fatalf("expected error")
		}
		if store.Snapshot().Len() != 3 {
			t.Fatalf("catalog must be unchanged")
		}
	})

	t.Run("invalid snapshot keeps catalog", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		provider := mock_interfaces.NewMockICatalogProvider(ctrl)
		store := testCatalogStore(t)
		uc := NewCatalogUseCase(store, provider, nil)

		dup := entities.Product{ID: "X", Category: entities.CategoryAIAddon}
		provider.EXPECT().LoadProducts(gomock.Any()).Return([]entities.Product{dup, dup}, nil)

		if _, err := uc.Reload(ctx); !errors.Is(err, entities.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if store.Snapshot().Len() != 3 {
			t.Fatalf("catalog must be unchanged")
		}
	})

	t.Run("success swaps snapshot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		provider := mock_interfaces.NewMockICatalogProvider(ctrl)
		store := testCatalogStore(t)
		uc := NewCatalogUseCase(store, provider, nil)

		provider.EXPECT().LoadProducts(gomock.Any()).Return([]entities.Product{{ID: "only", Category: entities.CategoryAIAddon, BasePrice: dec("5")}}, nil)

		n, err := uc.Reload(ctx)
		if err != nil || n != 1 {
			t.Fatalf("unexpected reload: %d %v", n, err)
		}
		if _, err := uc.GetProduct(ctx, "P1"); !errors.Is(err, entities.ErrNotFound) {
			t.Fatalf("old products must be gone, got %v", err)
		}
	})
}
