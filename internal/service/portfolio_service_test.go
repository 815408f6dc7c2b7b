package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/testutil"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/validation"
)

func stockRequest(name string, quantity, price float64) request.AddAssetRequest {
	return request.AddAssetRequest{
		AssetType:     "stock",
		AssetName:     name,
		WinRate:       testutil.Float(60),
		StockQuantity: testutil.Float(quantity),
		StockPrice:    testutil.Float(price),
	}
}

func otherRequest(name string, amount float64) request.AddAssetRequest {
	return request.AddAssetRequest{
		AssetType: "other",
		AssetName: name,
		WinRate:   testutil.Float(40),
		Amount:    testutil.Float(amount),
	}
}

func TestPortfolioService_CreatePortfolio(t *testing.T) {
	ctx := context.Background()

	t.Run("first portfolio of a name is version 1", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)

		p, err := svc.CreatePortfolio(ctx, request.CreatePortfolioRequest{Name: "Retirement"})
		if err != nil {
			t.Fatalf("CreatePortfolio() returned unexpected error: %v", err)
		}

		if p.Version != 1 {
			t.Errorf("Expected version 1, got %d", p.Version)
		}
		if p.ID == "" {
			t.Error("Expected a generated ID")
		}
		if p.Assets == nil || len(p.Assets) != 0 {
			t.Errorf("Expected empty assets, got %v", p.Assets)
		}
		if !p.CreatedAt.Equal(testutil.BaseTime) {
			t.Errorf("Expected createdAt %v, got %v", testutil.BaseTime, p.CreatedAt)
		}
		testutil.AssertPortfolioCount(t, store, 1)
	})

	t.Run("existing lineage gets max version plus one", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)

		testutil.NewPortfolio().WithName("Growth").WithVersion(1).Build(t, store)
		testutil.NewPortfolio().WithName("Growth").WithVersion(4).Build(t, store)
		testutil.NewPortfolio().WithName("Other").WithVersion(9).Build(t, store)

		p, err := svc.CreatePortfolio(ctx, request.CreatePortfolioRequest{Name: "Growth"})
		if err != nil {
			t.Fatalf("CreatePortfolio() returned unexpected error: %v", err)
		}
		if p.Version != 5 {
			t.Errorf("Expected version 5, got %d", p.Version)
		}
	})

	t.Run("names are matched exactly", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)

		testutil.NewPortfolio().WithName("growth").WithVersion(3).Build(t, store)

		p, err := svc.CreatePortfolio(ctx, request.CreatePortfolioRequest{Name: "Growth"})
		if err != nil {
			t.Fatalf("CreatePortfolio() returned unexpected error: %v", err)
		}
		if p.Version != 1 {
			t.Errorf("Expected version 1, got %d", p.Version)
		}
	})

	t.Run("multi-byte name is accepted", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		name := strings.Repeat("退休", 17)

		p, err := svc.CreatePortfolio(ctx, request.CreatePortfolioRequest{Name: name})
		if err != nil {
			t.Fatalf("CreatePortfolio() returned unexpected error: %v", err)
		}
		if p.Name != name {
			t.Errorf("Expected name %s, got %s", name, p.Name)
		}
	})

	t.Run("empty name is rejected without mutation", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)

		_, err := svc.CreatePortfolio(ctx, request.CreatePortfolioRequest{Name: "  "})

		var valErr *validation.Error
		if !errors.As(err, &valErr) {
			t.Fatalf("Expected validation error, got %v", err)
		}
		testutil.AssertPortfolioCount(t, store, 0)
	})
}

func TestPortfolioService_AppendAsset(t *testing.T) {
	ctx := context.Background()

	t.Run("stock amount is quantity times price", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		p := testutil.CreatePortfolio(t, store, "Stocks")

		updated, err := svc.AppendAsset(ctx, p.ID, stockRequest("ACME", 10, 2.5))
		if err != nil {
			t.Fatalf("AppendAsset() returned unexpected error: %v", err)
		}

		if len(updated.Assets) != 1 {
			t.Fatalf("Expected 1 asset, got %d", len(updated.Assets))
		}
		asset := updated.Assets[0]
		if asset.Amount != 25.0 {
			t.Errorf("Expected amount 25, got %v", asset.Amount)
		}
		if asset.StockQuantity == nil || *asset.StockQuantity != 10 {
			t.Errorf("Expected stockQuantity 10, got %v", asset.StockQuantity)
		}
		if asset.ID == "" {
			t.Error("Expected a generated asset ID")
		}
	})

	t.Run("stock amount is the float product", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		p := testutil.CreatePortfolio(t, store, "Stocks")

		updated, err := svc.AppendAsset(ctx, p.ID, stockRequest("ACME", 3, 0.1))
		if err != nil {
			t.Fatalf("AppendAsset() returned unexpected error: %v", err)
		}
		asset := updated.Assets[0]
		expected := *asset.StockQuantity * *asset.StockPrice
		if asset.Amount != expected {
			t.Errorf("Expected amount %v, got %v", expected, asset.Amount)
		}

		stored, err := svc.GetPortfolio(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetPortfolio() returned unexpected error: %v", err)
		}
		if stored.Assets[0].Amount != *stored.Assets[0].StockQuantity * *stored.Assets[0].StockPrice {
			t.Errorf("Expected stored amount to equal quantity times price, got %v", stored.Assets[0].Amount)
		}
	})

	t.Run("stock ignores supplied amount", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		p := testutil.CreatePortfolio(t, store, "Stocks")

		req := stockRequest("ACME", 4, 5)
		req.Amount = testutil.Float(999)

		updated, err := svc.AppendAsset(ctx, p.ID, req)
		if err != nil {
			t.Fatalf("AppendAsset() returned unexpected error: %v", err)
		}
		if updated.Assets[0].Amount != 20 {
			t.Errorf("Expected amount 20, got %v", updated.Assets[0].Amount)
		}
	})

	t.Run("other asset keeps amount and drops stock fields", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		p := testutil.CreatePortfolio(t, store, "Mixed")

		req := otherRequest("Bond", 1000)
		req.StockQuantity = testutil.Float(1)
		req.StockPrice = testutil.Float(2)

		updated, err := svc.AppendAsset(ctx, p.ID, req)
		if err != nil {
			t.Fatalf("AppendAsset() returned unexpected error: %v", err)
		}
		asset := updated.Assets[0]
		if asset.Amount != 1000 {
			t.Errorf("Expected amount 1000, got %v", asset.Amount)
		}
		if asset.StockQuantity != nil || asset.StockPrice != nil {
			t.Errorf("Expected no stock fields, got %v %v", asset.StockQuantity, asset.StockPrice)
		}
	})

	t.Run("appends in place without new version", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		p := testutil.CreatePortfolio(t, store, "InPlace")

		_, _ = svc.AppendAsset(ctx, p.ID, otherRequest("A", 1))
		updated, err := svc.AppendAsset(ctx, p.ID, otherRequest("B", 2))
		if err != nil {
			t.Fatalf("AppendAsset() returned unexpected error: %v", err)
		}

		if updated.ID != p.ID || updated.Version != p.Version {
			t.Errorf("Expected same id/version, got %s v%d", updated.ID, updated.Version)
		}
		if len(updated.Assets) != 2 || updated.Assets[1].AssetName != "B" {
			t.Errorf("Expected assets [A B], got %v", updated.Assets)
		}
		testutil.AssertPortfolioCount(t, store, 1)

		stored, _ := svc.GetPortfolio(ctx, p.ID)
		if len(stored.Assets) != 2 {
			t.Errorf("Expected 2 stored assets, got %d", len(stored.Assets))
		}
	})

	t.Run("unknown portfolio is not found", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)

		_, err := svc.AppendAsset(ctx, testutil.MakeID(), otherRequest("A", 1))
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
		testutil.AssertPortfolioCount(t, store, 0)
	})

	t.Run("invalid asset is rejected without mutation", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		p := testutil.CreatePortfolio(t, store, "Invalid")

		req := stockRequest("ACME", -1, 3)
		_, err := svc.AppendAsset(ctx, p.ID, req)

		var valErr *validation.Error
		if !errors.As(err, &valErr) {
			t.Fatalf("Expected validation error, got %v", err)
		}
		stored, _ := svc.GetPortfolio(ctx, p.ID)
		if len(stored.Assets) != 0 {
			t.Errorf("Expected no assets, got %d", len(stored.Assets))
		}
	})

	t.Run("superseded version is frozen", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		v1 := testutil.NewPortfolio().WithName("Frozen").WithVersion(1).Build(t, store)
		testutil.NewPortfolio().WithName("Frozen").WithVersion(2).Build(t, store)

		_, err := svc.AppendAsset(ctx, v1.ID, otherRequest("A", 1))
		if !errors.Is(err, apperrors.ErrPortfolioVersionFrozen) {
			t.Errorf("Expected ErrPortfolioVersionFrozen, got %v", err)
		}
	})
}

func TestPortfolioService_SaveNewVersion(t *testing.T) {
	ctx := context.Background()

	t.Run("creates next version and leaves original untouched", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		p, _ := svc.CreatePortfolio(ctx, request.CreatePortfolioRequest{Name: "Lineage"})
		_, _ = svc.AppendAsset(ctx, p.ID, otherRequest("Cash", 100))

		saved, err := svc.SaveNewVersion(ctx, p.ID, request.SaveVersionRequest{})
		if err != nil {
			t.Fatalf("SaveNewVersion() returned unexpected error: %v", err)
		}

		if saved.ID == p.ID {
			t.Error("Expected a fresh ID")
		}
		if saved.Name != "Lineage" || saved.Version != 2 {
			t.Errorf("Expected Lineage v2, got %s v%d", saved.Name, saved.Version)
		}
		if len(saved.Assets) != 1 {
			t.Errorf("Expected 1 copied asset, got %d", len(saved.Assets))
		}
		if !saved.CreatedAt.After(p.CreatedAt) {
			t.Errorf("Expected createdAt after %v, got %v", p.CreatedAt, saved.CreatedAt)
		}

		// Changing the new version must not touch the old one.
		_, err = svc.AppendAsset(ctx, saved.ID, otherRequest("Gold", 50))
		if err != nil {
			t.Fatalf("AppendAsset() returned unexpected error: %v", err)
		}
		original, _ := svc.GetPortfolio(ctx, p.ID)
		if len(original.Assets) != 1 || original.Version != 1 {
			t.Errorf("Expected original v1 with 1 asset, got v%d with %d", original.Version, len(original.Assets))
		}
		testutil.AssertPortfolioCount(t, store, 2)
	})

	t.Run("no pending changes is rejected", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		p := testutil.CreatePortfolio(t, store, "Clean")

		_, err := svc.SaveNewVersion(ctx, p.ID, request.SaveVersionRequest{HasChanges: testutil.Bool(false)})
		if !errors.Is(err, apperrors.ErrNoPendingChanges) {
			t.Errorf("Expected ErrNoPendingChanges, got %v", err)
		}
		testutil.AssertPortfolioCount(t, store, 1)
	})

	t.Run("unknown portfolio is not found", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)

		_, err := svc.SaveNewVersion(ctx, testutil.MakeID(), request.SaveVersionRequest{HasChanges: testutil.Bool(true)})
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})

	t.Run("saving a superseded version is frozen", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		p, _ := svc.CreatePortfolio(ctx, request.CreatePortfolioRequest{Name: "Twice"})
		if _, err := svc.SaveNewVersion(ctx, p.ID, request.SaveVersionRequest{}); err != nil {
			t.Fatalf("SaveNewVersion() returned unexpected error: %v", err)
		}

		_, err := svc.SaveNewVersion(ctx, p.ID, request.SaveVersionRequest{})
		if !errors.Is(err, apperrors.ErrPortfolioVersionFrozen) {
			t.Errorf("Expected ErrPortfolioVersionFrozen, got %v", err)
		}
		testutil.AssertPortfolioCount(t, store, 2)
	})
}

// TestPortfolioService_RetirementScenario walks a lineage from creation through a saved version.
//
// WHY: This is the main user journey. It proves that assets are derived on append and that
// saving appends a snapshot while the earlier version keeps its original (empty) asset list.
func TestPortfolioService_RetirementScenario(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStorage(t)
	svc := testutil.NewTestPortfolioService(t, store)

	p, err := svc.CreatePortfolio(ctx, request.CreatePortfolioRequest{Name: "Retirement"})
	if err != nil {
		t.Fatalf("CreatePortfolio() returned unexpected error: %v", err)
	}
	if p.Version != 1 || len(p.Assets) != 0 {
		t.Fatalf("Expected Retirement v1 without assets, got v%d with %d", p.Version, len(p.Assets))
	}

	updated, err := svc.AppendAsset(ctx, p.ID, stockRequest("ACME", 100, 3))
	if err != nil {
		t.Fatalf("AppendAsset() returned unexpected error: %v", err)
	}
	if updated.Assets[0].Amount != 300 {
		t.Errorf("Expected amount 300, got %v", updated.Assets[0].Amount)
	}

	saved, err := svc.SaveNewVersion(ctx, p.ID, request.SaveVersionRequest{HasChanges: testutil.Bool(true)})
	if err != nil {
		t.Fatalf("SaveNewVersion() returned unexpected error: %v", err)
	}
	if saved.Version != 2 || len(saved.Assets) != 1 || saved.Assets[0].AssetName != "ACME" {
		t.Errorf("Expected Retirement v2 with ACME, got v%d with %v", saved.Version, saved.Assets)
	}

	versions, err := svc.ListVersions(ctx, "Retirement")
	if err != nil {
		t.Fatalf("ListVersions() returned unexpected error: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("Expected 2 versions, got %d", len(versions))
	}
	if versions[0].Version != 1 || len(versions[0].Assets) != 1 {
		t.Errorf("Expected v1 to keep its asset list, got v%d with %d assets", versions[0].Version, len(versions[0].Assets))
	}
}

func TestPortfolioService_ListLatest(t *testing.T) {
	ctx := context.Background()

	t.Run("returns latest version per name", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)

		testutil.NewPortfolio().WithName("A").WithVersion(1).WithCreatedAt(testutil.BaseTime).Build(t, store)
		a2 := testutil.NewPortfolio().WithName("A").WithVersion(2).WithCreatedAt(testutil.BaseTime.Add(2 * time.Hour)).Build(t, store)
		b1 := testutil.NewPortfolio().WithName("B").WithVersion(1).WithCreatedAt(testutil.BaseTime.Add(time.Hour)).Build(t, store)

		items, err := svc.ListLatest(ctx)
		if err != nil {
			t.Fatalf("ListLatest() returned unexpected error: %v", err)
		}

		if len(items) != 2 {
			t.Fatalf("Expected 2 items, got %d", len(items))
		}
		if items[0].ID != a2.ID || items[0].Version != 2 {
			t.Errorf("Expected A@2 first, got %s@%d", items[0].Name, items[0].Version)
		}
		if items[1].ID != b1.ID {
			t.Errorf("Expected B@1 second, got %s@%d", items[1].Name, items[1].Version)
		}
	})

	t.Run("orders by createdAt descending", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)

		testutil.NewPortfolio().WithName("Old").WithCreatedAt(testutil.BaseTime).Build(t, store)
		testutil.NewPortfolio().WithName("New").WithCreatedAt(testutil.BaseTime.Add(48 * time.Hour)).Build(t, store)
		testutil.NewPortfolio().WithName("Mid").WithCreatedAt(testutil.BaseTime.Add(24 * time.Hour)).Build(t, store)

		items, err := svc.ListLatest(ctx)
		if err != nil {
			t.Fatalf("ListLatest() returned unexpected error: %v", err)
		}

		got := []string{items[0].Name, items[1].Name, items[2].Name}
		want := []string{"New", "Mid", "Old"}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Expected order %v, got %v", want, got)
				break
			}
		}
	})

	t.Run("version ties keep the first record", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)

		first := testutil.NewPortfolio().WithName("Dup").WithVersion(3).WithCreatedAt(testutil.BaseTime).Build(t, store)
		testutil.NewPortfolio().WithName("Dup").WithVersion(3).WithCreatedAt(testutil.BaseTime.Add(time.Hour)).Build(t, store)

		items, err := svc.ListLatest(ctx)
		if err != nil {
			t.Fatalf("ListLatest() returned unexpected error: %v", err)
		}
		if len(items) != 1 || items[0].ID != first.ID {
			t.Errorf("Expected only the first duplicate, got %v", items)
		}
	})

	t.Run("summarizes assets", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)

		testutil.NewPortfolio().WithName("Sum").WithAssets(
			testutil.NewStockAsset("ACME", 100, 3).Build(),
			testutil.NewOtherAsset("Cash", 934.5).Build(),
		).Build(t, store)

		items, err := svc.ListLatest(ctx)
		if err != nil {
			t.Fatalf("ListLatest() returned unexpected error: %v", err)
		}
		item := items[0]
		if item.AssetCount != 2 {
			t.Errorf("Expected 2 assets, got %d", item.AssetCount)
		}
		if item.TotalAmount != 1234.5 {
			t.Errorf("Expected total 1234.5, got %v", item.TotalAmount)
		}
		if item.FormattedTotal != "$1,234.50" {
			t.Errorf("Expected '$1,234.50', got '%s'", item.FormattedTotal)
		}
	})

	t.Run("empty collection gives empty list", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)

		items, err := svc.ListLatest(ctx)
		if err != nil {
			t.Fatalf("ListLatest() returned unexpected error: %v", err)
		}
		if items == nil || len(items) != 0 {
			t.Errorf("Expected empty non-nil list, got %v", items)
		}
	})
}

func TestPortfolioService_ListVersions(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStorage(t)
	svc := testutil.NewTestPortfolioService(t, store)

	testutil.NewPortfolio().WithName("L").WithVersion(3).Build(t, store)
	testutil.NewPortfolio().WithName("L").WithVersion(1).Build(t, store)
	testutil.NewPortfolio().WithName("Other").WithVersion(2).Build(t, store)

	t.Run("returns lineage ordered by version", func(t *testing.T) {
		versions, err := svc.ListVersions(ctx, "L")
		if err != nil {
			t.Fatalf("ListVersions() returned unexpected error: %v", err)
		}
		if len(versions) != 2 || versions[0].Version != 1 || versions[1].Version != 3 {
			t.Errorf("Expected versions [1 3], got %v", versions)
		}
	})

	t.Run("unknown name gives empty list", func(t *testing.T) {
		versions, err := svc.ListVersions(ctx, "Missing")
		if err != nil {
			t.Fatalf("ListVersions() returned unexpected error: %v", err)
		}
		if len(versions) != 0 {
			t.Errorf("Expected no versions, got %d", len(versions))
		}
	})

	t.Run("empty name is a validation error", func(t *testing.T) {
		_, err := svc.ListVersions(ctx, "")
		var valErr *validation.Error
		if !errors.As(err, &valErr) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})
}

func TestPortfolioService_ExportImport(t *testing.T) {
	ctx := context.Background()

	t.Run("export omits id and uses name and version for filename", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		p := testutil.NewPortfolio().WithName("Retirement").WithVersion(2).
			WithAssets(testutil.NewStockAsset("ACME", 100, 3).Build()).Build(t, store)

		file, err := svc.ExportPortfolio(ctx, p.ID)
		if err != nil {
			t.Fatalf("ExportPortfolio() returned unexpected error: %v", err)
		}

		if file.Filename != "Retirement_v2.json" {
			t.Errorf("Expected filename 'Retirement_v2.json', got '%s'", file.Filename)
		}
		if strings.Contains(string(file.Data), p.ID) {
			t.Error("Expected exported document not to contain the portfolio id")
		}
		if !strings.Contains(string(file.Data), "\n  \"name\": \"Retirement\"") {
			t.Errorf("Expected 2-space indented document, got %s", file.Data)
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(file.Data, &fields); err != nil {
			t.Fatalf("Failed to decode export: %v", err)
		}
		if _, ok := fields["id"]; ok {
			t.Error("Expected no id field")
		}
	})

	t.Run("export of unknown portfolio is not found", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)

		_, err := svc.ExportPortfolio(ctx, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})

	t.Run("export then import reproduces the record with fresh id and createdAt", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		original := testutil.NewPortfolio().WithName("RoundTrip").WithVersion(3).WithAssets(
			testutil.NewStockAsset("ACME", 10, 2.5).Build(),
			testutil.NewOtherAsset("Cash", 50).WithWinRate(10).Build(),
		).WithCreatedAt(time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)).Build(t, store)

		file, err := svc.ExportPortfolio(ctx, original.ID)
		if err != nil {
			t.Fatalf("ExportPortfolio() returned unexpected error: %v", err)
		}
		imported, err := svc.ImportPortfolio(ctx, file.Data)
		if err != nil {
			t.Fatalf("ImportPortfolio() returned unexpected error: %v", err)
		}

		if imported.ID == original.ID {
			t.Error("Expected a fresh ID")
		}
		if imported.CreatedAt.Equal(original.CreatedAt) {
			t.Error("Expected a fresh createdAt")
		}
		if imported.Name != original.Name || imported.Version != original.Version {
			t.Errorf("Expected %s v%d, got %s v%d", original.Name, original.Version, imported.Name, imported.Version)
		}
		assertSameAssets(t, original.Assets, imported.Assets)
		testutil.AssertPortfolioCount(t, store, 2)
	})

	t.Run("importing the same document twice lists the first record", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		doc := []byte(`{"name":"T","version":1,"assets":[]}`)

		first, err := svc.ImportPortfolio(ctx, doc)
		if err != nil {
			t.Fatalf("ImportPortfolio() returned unexpected error: %v", err)
		}
		if _, err := svc.ImportPortfolio(ctx, doc); err != nil {
			t.Fatalf("ImportPortfolio() returned unexpected error: %v", err)
		}

		items, err := svc.ListLatest(ctx)
		if err != nil {
			t.Fatalf("ListLatest() returned unexpected error: %v", err)
		}
		if len(items) != 1 || items[0].ID != first.ID {
			t.Errorf("Expected only %s, got %v", first.ID, items)
		}
	})

	t.Run("import without assets fails and leaves collection unchanged", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		testutil.CreatePortfolio(t, store, "Existing")

		_, err := svc.ImportPortfolio(ctx, []byte(`{"name":"Broken","version":1}`))
		if !errors.Is(err, apperrors.ErrInvalidFormat) {
			t.Errorf("Expected ErrInvalidFormat, got %v", err)
		}
		testutil.AssertPortfolioCount(t, store, 1)
	})
}

func TestPortfolioService_GetAllocation(t *testing.T) {
	ctx := context.Background()

	t.Run("weights assets by amount", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		p := testutil.NewPortfolio().WithAssets(
			testutil.NewOtherAsset("A", 25).Build(),
			testutil.NewOtherAsset("B", 75).Build(),
		).Build(t, store)

		alloc, err := svc.GetAllocation(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetAllocation() returned unexpected error: %v", err)
		}

		if alloc.TotalAmount != 100 {
			t.Errorf("Expected total 100, got %v", alloc.TotalAmount)
		}
		if alloc.Assets[0].Weight != 0.25 || alloc.Assets[1].Weight != 0.75 {
			t.Errorf("Expected weights [0.25 0.75], got [%v %v]", alloc.Assets[0].Weight, alloc.Assets[1].Weight)
		}
		for _, a := range alloc.Assets {
			if math.Abs(a.EqualWeight-0.5) > 1e-9 {
				t.Errorf("Expected equal weight 0.5, got %v", a.EqualWeight)
			}
		}
	})

	t.Run("zero total gives zero weights", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		p := testutil.NewPortfolio().WithAssets(testutil.NewOtherAsset("Empty", 0).Build()).Build(t, store)

		alloc, err := svc.GetAllocation(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetAllocation() returned unexpected error: %v", err)
		}
		if alloc.Assets[0].Weight != 0 || alloc.Assets[0].EqualWeight != 0 {
			t.Errorf("Expected zero weights, got %+v", alloc.Assets[0])
		}
	})

	t.Run("portfolio without assets has empty allocation", func(t *testing.T) {
		store := testutil.SetupTestStorage(t)
		svc := testutil.NewTestPortfolioService(t, store)
		p := testutil.CreatePortfolio(t, store, "Empty")

		alloc, err := svc.GetAllocation(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetAllocation() returned unexpected error: %v", err)
		}
		if len(alloc.Assets) != 0 {
			t.Errorf("Expected no assets, got %d", len(alloc.Assets))
		}
	})
}

func assertSameAssets(t *testing.T, want, got []model.Asset) {
	t.Helper()

	if len(want) != len(got) {
		t.Fatalf("Expected %d assets, got %d", len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.ID != g.ID || w.AssetType != g.AssetType || w.AssetName != g.AssetName ||
			w.WinRate != g.WinRate || w.Amount != g.Amount {
			t.Errorf("Asset %d: expected %+v, got %+v", i, w, g)
		}
		if (w.StockQuantity == nil) != (g.StockQuantity == nil) ||
			(w.StockQuantity != nil && *w.StockQuantity != *g.StockQuantity) {
			t.Errorf("Asset %d: expected stockQuantity %v, got %v", i, w.StockQuantity, g.StockQuantity)
		}
	}
}
