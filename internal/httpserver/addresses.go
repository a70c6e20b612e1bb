package httpserver

import (
	"errors"
	"net/http"

	"retroshop/internal/domain"
	addressrepo "retroshop/internal/repository/address"

	"github.com/gin-gonic/gin"
)

func (h handlers) listAddresses(c *gin.Context) {
	addresses, err := h.deps.Addresses.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load addresses"})
		return
	}
	if addresses == nil {
		addresses = []domain.Address{}
	}
	c.JSON(http.StatusOK, addresses)
}

type createAddressRequest struct {
	FullName   string `json:"fullName" binding:"required"`
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	Region     string `json:"region"`
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country" binding:"required"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"isDefault"`
}

func (h handlers) createAddress(c *gin.Context) {
	var req createAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required address fields"})
		return
	}

	addr, err := h.deps.Addresses.Create(c.Request.Context(), addressrepo.CreateInput{
		UserID:     currentUserID(c),
		FullName:   req.FullName,
		Street:     req.Street,
		City:       req.City,
		Region:     req.Region,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Phone:      req.Phone,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		h.logger.Printf("address handler: create: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create address"})
		return
	}
	c.JSON(http.StatusCreated, addr)
}

func (h handlers) setDefaultAddress(c *gin.Context) {
	err := h.deps.Addresses.SetDefault(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update address"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
