package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kotd-tracker/internal/models"
	"kotd-tracker/internal/snapshot"
	"kotd-tracker/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *snapshot.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := snapshot.NewStore(storage.NewMemoryStore())
	r := gin.New()
	SetupRoutes(r.Group("/api/v1"), store, nil)
	return r, store
}

func seed(t *testing.T, store *snapshot.Store, date string, rows []models.RawRow) {
	t.Helper()
	_, err := store.Upsert(context.Background(), date, time.Now(), rows)
	require.NoError(t, err)
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGetShopByDate(t *testing.T) {
	r, store := setupRouter(t)
	seed(t, store, "2023-09-04", []models.RawRow{
		{Price: "360g", ID: 3, Type: "⚔️", Name: "Basic GreatSword", Damage: "~3.0", Durability: "10 Uses", Element: "Blessed", ReqLevel: "1"},
	})

	w := get(r, "/api/v1/shop?date=2023-09-04")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Date  string `json:"date"`
		Items []struct {
			Item    models.Item         `json:"item"`
			Metrics map[string]*float64 `json:"metrics"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "2023-09-04", body.Date)
	require.Len(t, body.Items, 1)
	ppd := body.Items[0].Metrics["price_per_durability"]
	require.NotNil(t, ppd)
	require.Equal(t, 36.0, *ppd)
}

func TestGetShopDefaultsToLatest(t *testing.T) {
	r, store := setupRouter(t)
	seed(t, store, "2023-09-04", []models.RawRow{{Price: "100g", ID: 1, Name: "Old", Durability: "5"}})
	seed(t, store, "2023-09-05", []models.RawRow{{Price: "200g", ID: 1, Name: "New", Durability: "5"}})

	w := get(r, "/api/v1/shop")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Date string `json:"date"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "2023-09-05", body.Date)
}

func TestGetShopNoData(t *testing.T) {
	r, _ := setupRouter(t)
	require.Equal(t, http.StatusNotFound, get(r, "/api/v1/shop").Code)
	require.Equal(t, http.StatusNotFound, get(r, "/api/v1/shop?date=1999-01-01").Code)
}

func TestGetBestOf(t *testing.T) {
	r, store := setupRouter(t)
	seed(t, store, "2023-09-04", []models.RawRow{
		{Price: "100g", ID: 1, Type: "⚔️", Name: "Pricey", Durability: "10"},
		{Price: "20g", ID: 2, Type: "🏹", Name: "Bargain", Durability: "10"},
	})

	w := get(r, "/api/v1/shop/best?metric=price_per_durability")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Best struct {
			Record models.Record `json:"record"`
			Value  float64       `json:"value"`
		} `json:"best"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, int64(2), body.Best.Record.Item.ID)
	require.Equal(t, 2.0, body.Best.Value)

	require.Equal(t, http.StatusBadRequest, get(r, "/api/v1/shop/best?metric=bogus").Code)
}

func TestGetPriceChanges(t *testing.T) {
	r, store := setupRouter(t)
	seed(t, store, "2023-09-04", []models.RawRow{
		{Price: "100g", ID: 1, Name: "Stable", Durability: "5"},
		{Price: "100g", ID: 2, Name: "Riser", Durability: "5"},
		{Price: "50g", ID: 3, Name: "Leaver", Durability: "5"},
	})
	seed(t, store, "2023-09-05", []models.RawRow{
		{Price: "100g", ID: 1, Name: "Stable", Durability: "5"},
		{Price: "150g", ID: 2, Name: "Riser", Durability: "5"},
		{Price: "10g", ID: 4, Name: "Joiner", Durability: "5"},
	})

	w := get(r, "/api/v1/shop/changes")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Date     string `json:"date"`
		Previous string `json:"previous"`
		Changes  []struct {
			ItemID int64 `json:"item_id"`
			Change struct {
				Kind string `json:"kind"`
				Sign string `json:"sign"`
			} `json:"change"`
		} `json:"changes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "2023-09-05", body.Date)
	require.Equal(t, "2023-09-04", body.Previous)

	kinds := map[int64]string{}
	for _, c := range body.Changes {
		kinds[c.ItemID] = c.Change.Kind
	}
	// the unchanged item is omitted entirely
	require.NotContains(t, kinds, int64(1))
	require.Equal(t, "change", kinds[2])
	require.Equal(t, "removed", kinds[3])
	require.Equal(t, "new", kinds[4])
}

func TestGetPriceChangesUnparseablePrices(t *testing.T) {
	r, store := setupRouter(t)
	seed(t, store, "2023-09-04", []models.RawRow{
		{Price: "100g", ID: 1, Name: "Smudged Today", Durability: "5"},
		{Price: "???", ID: 2, Name: "Smudged Yesterday", Durability: "5"},
	})
	seed(t, store, "2023-09-05", []models.RawRow{
		{Price: "???", ID: 1, Name: "Smudged Today", Durability: "5"},
		{Price: "100g", ID: 2, Name: "Smudged Yesterday", Durability: "5"},
	})

	w := get(r, "/api/v1/shop/changes")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Changes []priceChangeEntry `json:"changes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	// both items exist on both days: an unreadable price on either side
	// is a meaningless comparison, never a new/removed marker
	require.Empty(t, body.Changes)
}

func TestGetPriceChangesNoPreviousDay(t *testing.T) {
	r, store := setupRouter(t)
	seed(t, store, "2023-09-04", []models.RawRow{
		{Price: "100g", ID: 1, Name: "Sword", Durability: "5"},
	})

	w := get(r, "/api/v1/shop/changes")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Previous string             `json:"previous"`
		Changes  []priceChangeEntry `json:"changes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "", body.Previous)
	require.Empty(t, body.Changes)
}

func TestGetItemHistory(t *testing.T) {
	r, store := setupRouter(t)
	seed(t, store, "2023-09-04", []models.RawRow{{Price: "100g", ID: 1, Name: "Sword", Durability: "5"}})
	seed(t, store, "2023-09-05", []models.RawRow{{Price: "110g", ID: 1, Name: "Sword", Durability: "5"}})

	w := get(r, "/api/v1/shop/history/1")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		History []models.DailyObservation `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.History, 2)
	require.Equal(t, "2023-09-04", body.History[0].Date)

	require.Equal(t, http.StatusBadRequest, get(r, "/api/v1/shop/history/sword").Code)
}

func TestGetDates(t *testing.T) {
	r, store := setupRouter(t)
	seed(t, store, "2023-09-04", []models.RawRow{{Price: "100g", ID: 1, Name: "Sword", Durability: "5"}})
	seed(t, store, "2023-09-05", []models.RawRow{{Price: "110g", ID: 1, Name: "Sword", Durability: "5"}})

	w := get(r, "/api/v1/dates")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Dates []models.IngestedDay `json:"dates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Dates, 2)
	require.Equal(t, "2023-09-05", body.Dates[0].Date)
}
