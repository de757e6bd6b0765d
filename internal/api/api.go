package api

import (
	"net/http"
	"strconv"

	"kotd-tracker/internal/metrics"
	"kotd-tracker/internal/models"
	"kotd-tracker/internal/services"
	"kotd-tracker/internal/snapshot"

	"github.com/gin-gonic/gin"
)

type APIHandler struct {
	store  *snapshot.Store
	ingest *services.IngestService
}

func SetupRoutes(r *gin.RouterGroup, store *snapshot.Store, ingest *services.IngestService) *APIHandler {
	handler := &APIHandler{
		store:  store,
		ingest: ingest,
	}

	shop := r.Group("/shop")
	{
		shop.GET("", handler.GetShopByDate)
		shop.GET("/history/:id", handler.GetItemHistory)
		shop.GET("/best", handler.GetBestOf)
		shop.GET("/changes", handler.GetPriceChanges)
	}

	r.GET("/dates", handler.GetDates)
	r.POST("/ingest", handler.TriggerIngest)

	return handler
}

// shopEntry is one joined record with its derived metrics. Metric
// values stay nullable: "unknown" must never render as 0.
type shopEntry struct {
	Item        models.Item             `json:"item"`
	Observation models.DailyObservation `json:"observation"`
	Metrics     map[string]*float64     `json:"metrics"`
}

var metricNames = []string{
	"price_per_durability",
	"price_per_damage_durability",
	"damage_per_price",
	"combat_efficiency",
}

// GetShopByDate returns the shop contents for ?date= (default: the
// latest recorded date), each entry annotated with the four derived
// metrics.
func (h *APIHandler) GetShopByDate(c *gin.Context) {
	date, ok := h.resolveDate(c)
	if !ok {
		return
	}

	records, err := h.store.GetByDate(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data found for that date"})
		return
	}

	entries := make([]shopEntry, 0, len(records))
	for _, rec := range records {
		entry := shopEntry{
			Item:        rec.Item,
			Observation: rec.Observation,
			Metrics:     map[string]*float64{},
		}
		for _, name := range metricNames {
			metric, _ := metrics.ByName(name)
			entry.Metrics[name] = metric(rec)
		}
		entries = append(entries, entry)
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "items": entries})
}

// GetDates lists every recorded day, newest first.
func (h *APIHandler) GetDates(c *gin.Context) {
	days, err := h.store.Dates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dates": days})
}

// GetItemHistory returns one item's observations ordered by date,
// optionally bounded by ?start= and ?end=.
func (h *APIHandler) GetItemHistory(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	history, err := h.store.GetHistory(c.Request.Context(), itemID, c.Query("start"), c.Query("end"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": itemID, "history": history})
}

// GetBestOf returns the extremal record for ?metric= on ?date=
// (default latest). ?direction= overrides the metric's natural
// direction; ?by_category=true partitions first.
func (h *APIHandler) GetBestOf(c *gin.Context) {
	name := c.DefaultQuery("metric", "price_per_durability")
	metric, ok := metrics.ByName(name)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown metric " + name})
		return
	}

	dir := naturalDirection(name)
	if v := c.Query("direction"); v != "" {
		parsed, ok := metrics.ParseDirection(v)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be min or max"})
			return
		}
		dir = parsed
	}

	date, ok := h.resolveDate(c)
	if !ok {
		return
	}
	records, err := h.store.GetByDate(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if c.Query("by_category") == "true" {
		c.JSON(http.StatusOK, gin.H{
			"date":   date,
			"metric": name,
			"best":   metrics.BestOfByCategory(records, metric, dir),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":   date,
		"metric": name,
		"best":   metrics.BestOf(records, metric, dir),
	})
}

type priceChangeEntry struct {
	ItemID int64               `json:"item_id"`
	Name   string              `json:"name"`
	Change *metrics.ChangeInfo `json:"change"`
}

// GetPriceChanges compares ?date= (default latest) against ?previous=
// (default the recorded day before it). Items without a visible change
// are omitted.
func (h *APIHandler) GetPriceChanges(c *gin.Context) {
	date, ok := h.resolveDate(c)
	if !ok {
		return
	}

	previous := c.Query("previous")
	if previous == "" {
		var err error
		previous, err = h.store.PreviousDate(c.Request.Context(), date)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	current, err := h.store.GetByDate(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	var prior []models.Record
	if previous != "" {
		prior, err = h.store.GetByDate(c.Request.Context(), previous)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	changes := []priceChangeEntry{}
	if previous != "" {
		priorByID := map[int64]models.Record{}
		for _, rec := range prior {
			priorByID[rec.Item.ID] = rec
		}

		// new/removed are decided by record presence alone; a record that
		// exists on both days with an unreadable price on either side is
		// a meaningless comparison and stays omitted
		seen := map[int64]bool{}
		for _, rec := range current {
			seen[rec.Item.ID] = true
			prevRec, existed := priorByID[rec.Item.ID]
			var change *metrics.ChangeInfo
			switch {
			case !existed:
				change = &metrics.ChangeInfo{Kind: metrics.ChangeNew}
			case rec.Observation.Price == nil || prevRec.Observation.Price == nil:
				change = nil
			default:
				change = metrics.PriceChange(rec.Observation.Price, prevRec.Observation.Price)
			}
			if change != nil {
				changes = append(changes, priceChangeEntry{ItemID: rec.Item.ID, Name: rec.Item.Name, Change: change})
			}
		}
		// items that were in the shop yesterday and vanished today
		for _, rec := range prior {
			if seen[rec.Item.ID] {
				continue
			}
			changes = append(changes, priceChangeEntry{
				ItemID: rec.Item.ID,
				Name:   rec.Item.Name,
				Change: &metrics.ChangeInfo{Kind: metrics.ChangeRemoved},
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"date": date, "previous": previous, "changes": changes})
}

// TriggerIngest runs a manual ingestion attempt.
func (h *APIHandler) TriggerIngest(c *gin.Context) {
	result, err := h.ingest.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// resolveDate reads ?date= or falls back to the latest recorded date,
// writing the error response itself when neither works.
func (h *APIHandler) resolveDate(c *gin.Context) (string, bool) {
	if date := c.Query("date"); date != "" {
		return date, true
	}
	latest, err := h.store.GetLatestDate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return "", false
	}
	if latest == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data recorded yet"})
		return "", false
	}
	return latest, true
}

func naturalDirection(metricName string) metrics.Direction {
	switch metricName {
	case "damage_per_price", "combat_efficiency":
		return metrics.Max
	default:
		return metrics.Min
	}
}
