package api

import (
	"github.com/gin-gonic/gin"
	"github.com/logiops/alertcenter/internal/alerting/service"
)

type Api struct {
	svc *service.Service
}

// NewApi binds the alert routes onto the router. The service is injected so
// tests can run the full HTTP surface against an in-memory store.
func NewApi(router *gin.Engine, svc *service.Service) *Api {
	api := &Api{svc: svc}
	api.setupRouters(router)
	return api
}

func (api *Api) setupRouters(router *gin.Engine) {
	g := router.Group("/api/alerts")
	g.GET("", api.ListAlerts)
	g.POST("", api.CreateAlert)
	g.POST("/actions", api.ApplyAction)
	g.GET("/:id", api.GetAlert)
	g.PUT("/:id", api.UpdateAlert)
	g.DELETE("/:id", api.DeleteAlert)
}
