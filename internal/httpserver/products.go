package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"weetzen-shop/internal/domain"
	categoryrepo "weetzen-shop/internal/repository/category"
	productrepo "weetzen-shop/internal/repository/product"
	"github.com/gin-gonic/gin"
)

func listProductsHandler(repo productrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categoryID *string
		if v := strings.TrimSpace(c.Query("category")); v != "" {
			categoryID = &v
		}
		products, err := repo.ListActive(c.Request.Context(), categoryID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
			return
		}
		out := make([]productResponse, 0, len(products))
		for _, p := range products {
			out = append(out, toProductResponse(p))
		}
		c.JSON(http.StatusOK, gin.H{"products": out})
	}
}

func getProductHandler(repo productrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
			return
		}
		c.JSON(http.StatusOK, toProductResponse(*p))
	}
}

func listCategoriesHandler(repo categoryrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load categories"})
			return
		}
		if categories == nil {
			categories = []domain.Category{}
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

type productRequest struct {
	CategoryID    *string `json:"category_id"`
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required"`
	ImageURL      string  `json:"image_url"`
	StockQuantity int     `json:"stock_quantity"`
	Active        *bool   `json:"active"`
}

func createProductHandler(repo productrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and price required"})
			return
		}
		if req.Price <= 0 || req.StockQuantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive and stock non-negative"})
			return
		}
		p, err := repo.Create(c.Request.Context(), productrepo.CreateInput{
			CategoryID:    req.CategoryID,
			Name:          req.Name,
			Description:   req.Description,
			PriceCents:    cents(req.Price),
			ImageURL:      req.ImageURL,
			StockQuantity: req.StockQuantity,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, toProductResponse(*p))
	}
}

func updateProductHandler(repo productrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and price required"})
			return
		}
		active := true
		if req.Active != nil {
			active = *req.Active
		}
		p, err := repo.Update(c.Request.Context(), c.Param("id"), productrepo.UpdateInput{
			CategoryID:    req.CategoryID,
			Name:          req.Name,
			Description:   req.Description,
			PriceCents:    cents(req.Price),
			ImageURL:      req.ImageURL,
			StockQuantity: req.StockQuantity,
			Active:        active,
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
			return
		}
		c.JSON(http.StatusOK, toProductResponse(*p))
	}
}

func deactivateProductHandler(repo productrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repo.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate product"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type categoryRequest struct {
	Key  string `json:"key" binding:"required"`
	Name string `json:"name" binding:"required"`
}

func createCategoryHandler(repo categoryrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "key and name required"})
			return
		}
		cat, err := repo.Create(c.Request.Context(), req.Key, req.Name)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "category already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create category"})
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}
