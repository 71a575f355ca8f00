package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/milanapp/milan-backend/internal/appconfig"
)

// ConfigHandler serves the static app bootstrap payload: option lists,
// subscription plans and client-side limits.
type ConfigHandler struct {
	cfg appconfig.AppConfig
}

func NewConfigHandler() *ConfigHandler {
	return &ConfigHandler{
		cfg: appconfig.Default(),
	}
}

// Init handles GET /config/init
// @Summary App bootstrap config
// @Description Option lists, subscription plans and limits for the client
// @Tags config
// @Produce json
// @Success 200 {object} appconfig.AppConfig
// @Router /config/init [get]
func (h *ConfigHandler) Init(c *gin.Context) {
	c.JSON(http.StatusOK, h.cfg)
}
