package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hieuld/liftcare/internal/model"
	"github.com/hieuld/liftcare/internal/service"
)

type createHistoryRequest struct {
	CustomerID          string   `json:"customerId" binding:"required"`
	ContractID          string   `json:"contractId"`
	Date                string   `json:"date" binding:"required"`
	TaskType            string   `json:"taskType" binding:"required"`
	MaintenanceContents []string `json:"maintenanceContents"`
	Notes               string   `json:"notes"`
}

func (h *Handler) createHistoryEntry(c *gin.Context) {
	var req createHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customerId"})
		return
	}
	var contractID *uuid.UUID
	if strings.TrimSpace(req.ContractID) != "" {
		parsed, err := uuid.Parse(req.ContractID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contractId"})
			return
		}
		contractID = &parsed
	}
	date, err := service.ParseDate(req.Date)
	if err != nil {
		h.handleError(c, err)
		return
	}

	entry, err := h.history.Create(c.Request.Context(), service.CreateHistoryInput{
		CustomerID:          customerID,
		ContractID:          contractID,
		Date:                date,
		TaskType:            model.TaskType(req.TaskType),
		MaintenanceContents: req.MaintenanceContents,
		Notes:               req.Notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) updateHistoryEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input service.UpdateHistoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.history.Update(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) getHistoryEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entry, err := h.history.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) getHistoryByCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entries, err := h.history.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) deleteHistoryEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.history.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}
