package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hieuld/liftcare/internal/service"
)

type createCustomerRequest struct {
	CustomerName           string `json:"customerName" binding:"required"`
	CompanyName            string `json:"companyName"`
	Address                string `json:"address" binding:"required"`
	ContractSigningDate    string `json:"contractSigningDate"`
	InspectionDate         string `json:"inspectionDate"`
	AcceptanceSigningDate  string `json:"acceptanceSigningDate"`
	WarrantyExpirationDate string `json:"warrantyExpirationDate"`
	Notes                  string `json:"notes"`
}

func (h *Handler) createCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.CreateCustomerInput{
		CustomerName: req.CustomerName,
		CompanyName:  req.CompanyName,
		Address:      req.Address,
		Notes:        req.Notes,
	}
	dates := []struct {
		raw  string
		dest **time.Time
	}{
		{req.ContractSigningDate, &input.ContractSigningDate},
		{req.InspectionDate, &input.InspectionDate},
		{req.AcceptanceSigningDate, &input.AcceptanceSigningDate},
		{req.WarrantyExpirationDate, &input.WarrantyExpirationDate},
	}
	for _, date := range dates {
		if date.raw == "" {
			continue
		}
		parsed, err := service.ParseDate(date.raw)
		if err != nil {
			h.handleError(c, err)
			return
		}
		*date.dest = &parsed
	}

	customer, err := h.customers.Create(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) updateCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input service.UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	customer, err := h.customers.Update(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) getAllCustomers(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *Handler) getCustomerByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	customer, err := h.customers.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}
