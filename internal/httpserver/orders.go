package httpserver

import (
	"errors"
	"net/http"
	"time"

	"retroshop/internal/domain"

	"github.com/gin-gonic/gin"
)

type orderView struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	AddressID     string          `json:"addressId"`
	Total         string          `json:"total"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"paymentStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
	Items         []orderItemView `json:"items,omitempty"`
}

type orderItemView struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

func toOrderView(o domain.Order) orderView {
	view := orderView{
		ID:            o.ID,
		OrderNumber:   o.Number,
		AddressID:     o.AddressID,
		Total:         o.Total(),
		Currency:      o.Currency,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		CreatedAt:     o.CreatedAt,
	}
	for _, item := range o.Items {
		view.Items = append(view.Items, orderItemView{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice(),
		})
	}
	return view
}

func (h handlers) listOrders(c *gin.Context) {
	orders, err := h.deps.Orders.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load orders"})
		return
	}
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	c.JSON(http.StatusOK, views)
}

func (h handlers) getOrder(c *gin.Context) {
	o, err := h.deps.Orders.GetForUser(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load order"})
		return
	}
	c.JSON(http.StatusOK, toOrderView(*o))
}
