package handler

import (
	"net/http"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/dto"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// FeatureHandler exposes authoring CRUD for features.
type FeatureHandler struct {
	menu *service.MenuService
}

func NewFeatureHandler(menu *service.MenuService) *FeatureHandler {
	return &FeatureHandler{menu: menu}
}

func (h *FeatureHandler) Create(c *gin.Context) {
	var req dto.CreateFeatureRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.menu.CreateFeature(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FeatureHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.menu.ListFeatures(c.Request.Context()))
}

func (h *FeatureHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	resp, err := h.menu.GetFeature(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FeatureHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dto.UpdateFeatureRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.menu.UpdateFeature(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
