package httpserver

import (
	"errors"
	"net/http"

	"weetzen-shop/internal/domain"
	checkoutsvc "weetzen-shop/internal/service/checkout"
	ordersvc "weetzen-shop/internal/service/order"
	"weetzen-shop/internal/service/payment"
	"github.com/gin-gonic/gin"
)

type customerInfoRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (r customerInfoRequest) toDomain() domain.CustomerInfo {
	return domain.CustomerInfo{
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    r.Phone,
		Address:  r.Address,
	}
}

type paymentIntentRequest struct {
	Metadata map[string]string `json:"metadata"`
}

func createPaymentIntentHandler(svc *checkoutsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ctxUserID)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in to pay by card"})
			return
		}
		var req paymentIntentRequest
		_ = c.ShouldBindJSON(&req)

		intent, err := svc.CreatePaymentIntent(c.Request.Context(), userID, req.Metadata)
		if err != nil {
			switch {
			case errors.Is(err, checkoutsvc.ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			case errors.Is(err, payment.ErrInvalidAmount):
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
			case errors.Is(err, payment.ErrNotConfigured):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "stripe secret key not configured"})
			default:
				c.JSON(http.StatusBadGateway, gin.H{"error": "failed to create payment intent"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"client_secret":     intent.ClientSecret,
			"payment_intent_id": intent.ID,
		})
	}
}

type cardCheckoutRequest struct {
	PaymentIntentID string              `json:"payment_intent_id" binding:"required"`
	RequestID       string              `json:"request_id"`
	CustomerInfo    customerInfoRequest `json:"customer_info"`
}

func cardCheckoutHandler(svc *checkoutsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ctxUserID)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in to pay by card"})
			return
		}
		var req cardCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment_intent_id required"})
			return
		}

		res, err := svc.ConfirmCard(c.Request.Context(), userID, req.PaymentIntentID, req.RequestID, req.CustomerInfo.toDomain())
		if err != nil {
			switch {
			case errors.Is(err, checkoutsvc.ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			case errors.Is(err, checkoutsvc.ErrOrderRecording):
				// Distinct warning: the charge went through, the cart stays.
				c.JSON(http.StatusBadGateway, gin.H{
					"error":   "payment succeeded but order confirmation failed",
					"warning": "Zahlung erfolgreich, Bestellbestätigung fehlgeschlagen. Bitte Support kontaktieren.",
				})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, checkoutResponse(res))
	}
}

type cashCheckoutRequest struct {
	RequestID    string              `json:"request_id"`
	CustomerInfo customerInfoRequest `json:"customer_info"`
}

func cashCheckoutHandler(svc *checkoutsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := cartOwner(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in or supply X-Guest-Id"})
			return
		}
		var req cashCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "customer_info required"})
			return
		}

		res, err := svc.Cash(c.Request.Context(), owner, req.RequestID, req.CustomerInfo.toDomain())
		if err != nil {
			switch {
			case errors.Is(err, checkoutsvc.ErrMissingContact), errors.Is(err, checkoutsvc.ErrEmptyCart), errors.Is(err, ordersvc.ErrInvalidInput):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, domain.ErrInsufficientStock):
				c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
			}
			return
		}
		c.JSON(http.StatusOK, checkoutResponse(res))
	}
}

func checkoutResponse(res *ordersvc.Result) gin.H {
	out := gin.H{
		"success":        true,
		"order_id":       res.Order.ID,
		"order_items":    toOrderResponse(*res.Order).Items,
		"payment_method": res.Order.PaymentMethod,
		"payment_status": res.Order.PaymentStatus,
		"is_guest_order": res.IsGuestOrder,
		"message":        res.Message,
	}
	if res.PickupInfo != nil {
		out["pickup_info"] = res.PickupInfo
	}
	return out
}
