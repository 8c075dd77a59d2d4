package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/logiops/alertcenter/internal/alerting/model"
	"github.com/rs/zerolog/log"
)

// ListAlerts implements GET /api/alerts?limit&status&severity&alertType.
func (api *Api) ListAlerts(c *gin.Context) {
	f := model.ListFilter{
		Status:    strings.TrimSpace(c.Query("status")),
		Severity:  strings.TrimSpace(c.Query("severity")),
		AlertType: strings.TrimSpace(c.Query("alertType")),
	}
	if limitStr := strings.TrimSpace(c.Query("limit")); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		f.Limit = limit
	}

	alerts, err := api.svc.List(c.Request.Context(), f)
	if err != nil {
		log.Error().Err(err).Msg("list alerts failed")
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": alerts})
}

// CreateAlert implements POST /api/alerts.
func (api *Api) CreateAlert(c *gin.Context) {
	var req model.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := api.svc.Create(c.Request.Context(), &req)
	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("create alert failed")
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": a})
}

// GetAlert implements GET /api/alerts/:id.
func (api *Api) GetAlert(c *gin.Context) {
	id := c.Param("id")
	a, err := api.svc.Get(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			log.Error().Err(err).Str("alert_id", id).Msg("get alert failed")
		}
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": a})
}

// UpdateAlert implements PUT /api/alerts/:id. The body is decoded against
// the allowlisted update DTO; unknown fields are rejected instead of being
// forwarded to the store.
func (api *Api) UpdateAlert(c *gin.Context) {
	id := c.Param("id")

	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	var req model.UpdateAlertRequest
	if err := dec.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := api.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			log.Error().Err(err).Str("alert_id", id).Msg("update alert failed")
		}
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": a})
}

// DeleteAlert implements DELETE /api/alerts/:id.
func (api *Api) DeleteAlert(c *gin.Context) {
	id := c.Param("id")
	if err := api.svc.Delete(c.Request.Context(), id); err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			log.Error().Err(err).Str("alert_id", id).Msg("delete alert failed")
		}
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type actionRequest struct {
	Action  string `json:"action" binding:"required"`
	AlertID string `json:"alertId" binding:"required"`
	UserID  string `json:"userId"`
}

// ApplyAction implements POST /api/alerts/actions. The action name arrives
// untyped here and is the only place an invalid one can be observed.
func (api *Api) ApplyAction(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := model.ParseAction(req.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}

	a, err := api.svc.ApplyAction(c.Request.Context(), req.AlertID, action, req.UserID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			log.Error().Err(err).Str("alert_id", req.AlertID).Str("action", req.Action).Msg("alert action failed")
		}
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": a})
}

// respondError maps the error taxonomy onto HTTP statuses: invalid input to
// 400, missing records to 404, everything else (including store failures) to
// 500. Bodies stay a flat { "error": message } string.
func (api *Api) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
