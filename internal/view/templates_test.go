package view_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/plastline/plastline-ops/internal/masterdata"
	"github.com/plastline/plastline-ops/internal/stock"
	"github.com/plastline/plastline-ops/internal/view"
	_ "github.com/plastline/plastline-ops/testing"
)

func TestEngineParsesAllTemplates(t *testing.T) {
	_, err := view.NewEngine()
	require.NoError(t, err)
}

func TestRenderLandingAndLogin(t *testing.T) {
	engine, err := view.NewEngine()
	require.NoError(t, err)

	for _, page := range []string{"pages/landing.html", "pages/login.html"} {
		res := httptest.NewRecorder()
		require.NoError(t, engine.Render(res, page, view.TemplateData{Title: "Test", CSRFToken: "tok"}))
		require.Contains(t, res.Header().Get("Content-Type"), "text/html")
		require.Contains(t, res.Body.String(), "PlastLine")
	}
}

func TestRenderInventoryGrouped(t *testing.T) {
	engine, err := view.NewEngine()
	require.NoError(t, err)

	rows := []stock.Row{
		{ID: "s1", ProductID: "p1", SKU: "GAL-5", Name: "Gallon Water 5L", Type: masterdata.ProductTypeFinishedGood, Quantity: 40, UOM: "PCS"},
		{ID: "s2", ProductID: "p2", SKU: "CAP-28", Name: "Caps Blue", Type: masterdata.ProductTypeFinishedGood, Quantity: 500, UOM: "PCS"},
	}
	data := struct {
		Rows        []stock.Row
		Groups      []stock.CategoryGroup
		Grouped     bool
		Alerts      []stock.ReorderAlert
		Type        string
		Query       string
		TypeOptions []struct{ Value, Label string }
	}{
		Rows:    rows,
		Groups:  stock.GroupByCategory(rows),
		Grouped: true,
		Alerts:  []stock.ReorderAlert{{SKU: "HDPE-01", Name: "HDPE Resin", Type: masterdata.ProductTypeRawMaterial, Quantity: 3, ReorderLevel: 10, UOM: "BAG"}},
		Type:    "FINISHED_GOOD",
		TypeOptions: []struct{ Value, Label string }{
			{"FINISHED_GOOD", "Finished Good"},
		},
	}

	res := httptest.NewRecorder()
	require.NoError(t, engine.Render(res, "pages/stock/inventory.html", view.TemplateData{
		Title: "Inventory", CSRFToken: "tok", CurrentPath: "/inventory", Data: data,
	}))

	body := res.Body.String()
	require.Contains(t, body, "Gallons")
	require.Contains(t, body, "Caps")
	require.Contains(t, body, "Re-Order Warning (1)")
	require.Contains(t, body, "Raw Material")
}

func TestRenderLedgerSignsQuantities(t *testing.T) {
	engine, err := view.NewEngine()
	require.NoError(t, err)

	notes := "recount"
	data := struct {
		Rows        []stock.Row
		Ledger      []stock.LedgerEntry
		Type        string
		Query       string
		TypeOptions []struct{ Value, Label string }
	}{
		Ledger: []stock.LedgerEntry{
			{ID: "l1", ProductName: "HDPE Resin", QuantityChange: 12, UOM: "BAG", Source: "manual_adjustment", Notes: &notes, CreatedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)},
			{ID: "l2", ProductName: "Gallon Water 5L", QuantityChange: -4, UOM: "PCS", Source: "production_runs", CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		},
		Type: "ALL",
	}

	res := httptest.NewRecorder()
	require.NoError(t, engine.Render(res, "pages/stock/ledger.html", view.TemplateData{
		Title: "Stock", CSRFToken: "tok", CurrentPath: "/stock", Data: data,
	}))

	body := res.Body.String()
	require.Contains(t, body, "+12 BAG")
	require.Contains(t, body, "-4 PCS")
	require.True(t, strings.Contains(body, "recount"))
}
