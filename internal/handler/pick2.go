package handler

import (
	"net/http"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/dto"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Pick2Handler exposes the promotion configuration and the shopper's
// per-session bundle selection.
type Pick2Handler struct {
	svc *service.Pick2Service
}

func NewPick2Handler(svc *service.Pick2Service) *Pick2Handler {
	return &Pick2Handler{svc: svc}
}

func (h *Pick2Handler) GetConfig(c *gin.Context) {
	resp, err := h.svc.GetConfig(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Pick2Handler) SaveConfig(c *gin.Context) {
	var req dto.Pick2ConfigRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SaveConfig(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Pick2Handler) ListOptions(c *gin.Context) {
	resp, err := h.svc.ListOptions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Pick2Handler) State(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	resp, err := h.svc.State(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Pick2Handler) Select(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req dto.SelectRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Select(c.Request.Context(), sid, uuid.MustParse(req.OptionID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Pick2Handler) Remove(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req dto.SelectRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Remove(c.Request.Context(), sid, uuid.MustParse(req.OptionID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Pick2Handler) Swap(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req dto.SwapRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Swap(c.Request.Context(), sid,
		uuid.MustParse(req.RemoveID), uuid.MustParse(req.AddID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Pick2Handler) ApplyPreset(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req dto.ApplyPresetRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ApplyPreset(c.Request.Context(), sid, req.Label)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Pick2Handler) Clear(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Clear(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
