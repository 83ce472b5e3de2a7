package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"weetzen-shop/internal/domain"
	cartsvc "weetzen-shop/internal/service/cart"
	"github.com/gin-gonic/gin"
)

func newGuestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"guest_id": cartsvc.NewGuestID()})
	}
}

func loadCartHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := cartOwner(c)
		if !ok {
			// No identity at all still renders an empty cart.
			c.JSON(http.StatusOK, toCartResponse(nil))
			return
		}
		items, err := svc.Load(c.Request.Context(), owner)
		if err != nil {
			// Surfaced as an empty cart rather than blocking the page.
			c.JSON(http.StatusOK, toCartResponse(nil))
			return
		}
		c.JSON(http.StatusOK, toCartResponse(items))
	}
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func addCartItemHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := cartOwner(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in or supply X-Guest-Id"})
			return
		}
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product_id required"})
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		items, err := svc.Add(c.Request.Context(), owner, req.ProductID, req.Quantity)
		if err != nil {
			switch {
			case errors.Is(err, cartsvc.ErrInvalidQuantity):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, cartsvc.ErrProductUnavailable):
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add item"})
			}
			return
		}
		c.JSON(http.StatusOK, toCartResponse(items))
	}
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func updateCartItemHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := cartOwner(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in or supply X-Guest-Id"})
			return
		}
		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity required"})
			return
		}
		items, err := svc.UpdateQuantity(c.Request.Context(), owner, c.Param("productId"), req.Quantity)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "cart line not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update quantity"})
			return
		}
		c.JSON(http.StatusOK, toCartResponse(items))
	}
}

func removeCartItemHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := cartOwner(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in or supply X-Guest-Id"})
			return
		}
		items, err := svc.Remove(c.Request.Context(), owner, c.Param("productId"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove item"})
			return
		}
		c.JSON(http.StatusOK, toCartResponse(items))
	}
}

func clearCartHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := cartOwner(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in or supply X-Guest-Id"})
			return
		}
		if err := svc.Clear(c.Request.Context(), owner); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, toCartResponse(nil))
	}
}

type mergeRequest struct {
	GuestID string `json:"guest_id" binding:"required"`
}

func mergeCartHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ctxUserID)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in to merge a guest cart"})
			return
		}
		var req mergeRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.GuestID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id required"})
			return
		}
		items, err := svc.Merge(c.Request.Context(), req.GuestID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to merge cart"})
			return
		}
		c.JSON(http.StatusOK, toCartResponse(items))
	}
}
