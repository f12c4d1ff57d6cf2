package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hieuld/liftcare/internal/service"
)

type Handler struct {
	customers *service.CustomerService
	contracts *service.ContractService
	history   *service.HistoryService
	trash     *service.TrashService
	reports   *service.ReportService
	exports   *service.ExportService
	log       zerolog.Logger
}

func NewHandler(
	customers *service.CustomerService,
	contracts *service.ContractService,
	history *service.HistoryService,
	trash *service.TrashService,
	reports *service.ReportService,
	exports *service.ExportService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		customers: customers,
		contracts: contracts,
		history:   history,
		trash:     trash,
		reports:   reports,
		exports:   exports,
		log:       log,
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateContractNumber):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
