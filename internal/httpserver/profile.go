package httpserver

import (
	"net/http"

	profilerepo "weetzen-shop/internal/repository/profile"
	customersvc "weetzen-shop/internal/service/customer"
	"github.com/gin-gonic/gin"
)

func getProfileHandler(svc *customersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Profile(c.Request.Context(), c.GetString(ctxUserID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

type profileUpdateRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func updateProfileHandler(svc *customersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req profileUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile payload"})
			return
		}
		p, err := svc.UpdateProfile(c.Request.Context(), c.GetString(ctxUserID), profilerepo.UpdateInput{
			FullName: req.FullName,
			Email:    req.Email,
			Phone:    req.Phone,
			Address:  req.Address,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
