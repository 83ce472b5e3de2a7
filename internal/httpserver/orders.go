package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"weetzen-shop/internal/domain"
	orderrepo "weetzen-shop/internal/repository/order"
	profilerepo "weetzen-shop/internal/repository/profile"
	"weetzen-shop/internal/service/deliverynote"
	ordersvc "weetzen-shop/internal/service/order"
	"github.com/gin-gonic/gin"
)

func listOwnOrdersHandler(repo orderrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := repo.ListByUser(c.Request.Context(), c.GetString(ctxUserID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": toOrderResponses(orders)})
	}
}

func listAllOrdersHandler(repo orderrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := repo.ListAll(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": toOrderResponses(orders)})
	}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func updateOrderStatusHandler(repo orderrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil || !ordersvc.ValidStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "valid status required"})
			return
		}
		status := strings.TrimSpace(req.Status)

		o, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
			return
		}
		if !domain.CanTransition(o.Status, status) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid status transition"})
			return
		}
		if err := repo.UpdateStatus(c.Request.Context(), o.ID, status); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": o.ID, "status": status})
	}
}

type paymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// Cash orders are settled by hand at pickup; this is the manual admin action
// that marks them paid.
func updatePaymentStatusHandler(repo orderrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment_status required"})
			return
		}
		status := strings.TrimSpace(req.PaymentStatus)
		if status != domain.PaymentStatusPending && status != domain.PaymentStatusCompleted {
			c.JSON(http.StatusBadRequest, gin.H{"error": "valid payment_status required"})
			return
		}
		if err := repo.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), status); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update payment status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": c.Param("id"), "payment_status": status})
	}
}

func deliveryNoteHandler(svc *deliverynote.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filename, html, err := svc.Render(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate delivery note"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename=`+filename)
		c.Data(http.StatusOK, "text/html; charset=utf-8", html)
	}
}

type setAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

func setAdminHandler(repo profilerepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setAdminRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "is_admin required"})
			return
		}
		if err := repo.SetAdmin(c.Request.Context(), c.Param("id"), req.IsAdmin); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update admin flag"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "is_admin": req.IsAdmin})
	}
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}
