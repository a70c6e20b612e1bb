package httpserver

import (
	"errors"
	"net/http"
	"time"

	"retroshop/internal/domain"

	"github.com/gin-gonic/gin"
)

type productView struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         string    `json:"price"`
	OriginalPrice string    `json:"originalPrice"`
	Currency      string    `json:"currency"`
	Stock         int       `json:"stock"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:            p.ID,
		Slug:          p.Slug,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price(),
		OriginalPrice: p.OriginalPrice(),
		Currency:      p.Currency,
		Stock:         p.Stock,
		CreatedAt:     p.CreatedAt,
	}
}

func (h handlers) listProducts(c *gin.Context) {
	products, err := h.deps.Products.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load products"})
		return
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	c.JSON(http.StatusOK, views)
}

func (h handlers) getProduct(c *gin.Context) {
	p, err := h.deps.Products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load product"})
		return
	}
	c.JSON(http.StatusOK, toProductView(*p))
}
