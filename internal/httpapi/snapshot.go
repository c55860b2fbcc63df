package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/godilite/collab-dashboard/internal/service"
	"github.com/godilite/collab-dashboard/internal/survey"
)

// SnapshotRequest carries a full filter state and the review sentiment
// selection. Empty fields mean ALL.
type SnapshotRequest struct {
	Year       string   `json:"year" form:"year"`
	Division   string   `json:"division" form:"division"`
	Department string   `json:"department" form:"department"`
	Unit       string   `json:"unit" form:"unit"`
	Sentiment  []string `json:"sentiment" form:"sentiment"`
	Reviews    []string `json:"reviews" form:"reviews"`
}

func (r SnapshotRequest) parse() (survey.FilterState, survey.SentimentSelection, error) {
	sentiment, err := survey.NewSentimentSelection(r.Sentiment...)
	if err != nil {
		return survey.FilterState{}, survey.SentimentSelection{}, err
	}
	reviews, err := survey.NewSentimentSelection(r.Reviews...)
	if err != nil {
		return survey.FilterState{}, survey.SentimentSelection{}, err
	}
	f := survey.DefaultFilters()
	f.Year = r.Year
	f.Division = r.Division
	f.Department = r.Department
	f.Unit = r.Unit
	f.Sentiment = sentiment
	return f.Normalize(), reviews, nil
}

// MetaResponse lists the selectable filter values.
type MetaResponse struct {
	Fingerprint string   `json:"fingerprint"`
	Records     int      `json:"records"`
	Years       []string `json:"years"`
	Divisions   []string `json:"divisions"`
	Sentiments  []string `json:"sentiments"`
}

// Meta returns the filter option lists.
// GET /api/v1/meta
func (h *Handler) Meta(c *gin.Context) {
	bundle, err := h.svc.Bundle()
	if err != nil {
		h.writeError(c, err)
		return
	}
	sentiments := make([]string, 0, len(survey.Sentiments)+1)
	sentiments = append(sentiments, survey.All)
	for _, s := range survey.Sentiments {
		sentiments = append(sentiments, string(s))
	}
	c.JSON(http.StatusOK, MetaResponse{
		Fingerprint: h.svc.Fingerprint(),
		Records:     len(bundle.Records),
		Years:       append([]string{survey.All}, bundle.Years()...),
		Divisions:   append([]string{survey.All}, bundle.Divisions()...),
		Sentiments:  sentiments,
	})
}

// GetSnapshot builds every view from query parameters.
// GET /api/v1/snapshot?year=2024년&sentiment=positive&sentiment=neutral
func (h *Handler) GetSnapshot(c *gin.Context) {
	var req SnapshotRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.snapshot(c, req)
}

// PostSnapshot builds every view from a JSON body.
// POST /api/v1/snapshot
func (h *Handler) PostSnapshot(c *gin.Context) {
	var req SnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.snapshot(c, req)
}

func (h *Handler) snapshot(c *gin.Context, req SnapshotRequest) {
	filters, reviews, err := req.parse()
	if err != nil {
		h.writeError(c, err)
		return
	}
	snap, err := h.svc.Snapshot(c.Request.Context(), filters, reviews)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Consistency lists rollups whose composite drifts from the sub-score mean.
// GET /api/v1/consistency
func (h *Handler) Consistency(c *gin.Context) {
	bundle, err := h.svc.Bundle()
	if err != nil {
		h.writeError(c, err)
		return
	}
	report := service.ConsistencyReport(bundle.Aggregates, service.DefaultConsistencyTolerance)
	if report == nil {
		report = []service.Inconsistency{}
	}
	c.JSON(http.StatusOK, gin.H{
		"tolerance":       service.DefaultConsistencyTolerance,
		"inconsistencies": report,
	})
}
