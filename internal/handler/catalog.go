package handler

import (
	"net/http"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/dto"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes publishing controls and the public catalog reads.
type CatalogHandler struct {
	menu    *service.MenuService
	catalog *service.CatalogService
}

func NewCatalogHandler(menu *service.MenuService, catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{menu: menu, catalog: catalog}
}

func (h *CatalogHandler) Publish(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dto.PublishRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.menu.Publish(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) Unpublish(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.menu.Unpublish(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) SetPick2Meta(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dto.Pick2MetaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.menu.SetPick2Meta(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) ListPublished(c *gin.Context) {
	resp, err := h.catalog.ListPublished(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) GetOption(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	resp, err := h.catalog.GetOption(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
