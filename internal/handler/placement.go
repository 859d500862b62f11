package handler

import (
	"net/http"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/dto"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// PlacementHandler exposes the board view and placement intents.
type PlacementHandler struct {
	menu *service.MenuService
}

func NewPlacementHandler(menu *service.MenuService) *PlacementHandler {
	return &PlacementHandler{menu: menu}
}

func (h *PlacementHandler) Board(c *gin.Context) {
	c.JSON(http.StatusOK, h.menu.GetBoard(c.Request.Context()))
}

func (h *PlacementHandler) Move(c *gin.Context) {
	var req dto.MoveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.menu.Move(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PlacementHandler) Reorder(c *gin.Context) {
	var req dto.ReorderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.menu.Reorder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PlacementHandler) ToggleConnector(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	resp, err := h.menu.ToggleConnector(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
