package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hieuld/liftcare/internal/model"
	"github.com/hieuld/liftcare/internal/service"
)

func (h *Handler) listReportCandidates(c *gin.Context) {
	candidates, err := h.reports.Candidates(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, candidates)
}

type generateReportItem struct {
	CustomerID          string   `json:"customerId" binding:"required"`
	ContractID          string   `json:"contractId"`
	TaskType            string   `json:"taskType" binding:"required"`
	VisitDate           string   `json:"visitDate" binding:"required"`
	MaintenanceContents []string `json:"maintenanceContents"`
}

type generateReportsRequest struct {
	Requests []generateReportItem `json:"requests" binding:"required"`
}

func (h *Handler) generateReports(c *gin.Context) {
	var req generateReportsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requests := make([]service.GenerateRequest, 0, len(req.Requests))
	for _, item := range req.Requests {
		customerID, err := uuid.Parse(item.CustomerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customerId"})
			return
		}
		var contractID *uuid.UUID
		if strings.TrimSpace(item.ContractID) != "" {
			parsed, err := uuid.Parse(item.ContractID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contractId"})
				return
			}
			contractID = &parsed
		}
		visitDate, err := service.ParseDate(item.VisitDate)
		if err != nil {
			h.handleError(c, err)
			return
		}
		requests = append(requests, service.GenerateRequest{
			CustomerID:          customerID,
			ContractID:          contractID,
			TaskType:            model.TaskType(item.TaskType),
			VisitDate:           visitDate,
			MaintenanceContents: item.MaintenanceContents,
		})
	}

	paths, err := h.reports.Generate(c.Request.Context(), requests)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": paths})
}

func (h *Handler) exportVisitLogPDF(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.exports.VisitLogPDF(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) exportContractsWorkbook(c *gin.Context) {
	result, err := h.exports.ContractsWorkbook(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}
