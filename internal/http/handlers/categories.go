package handlers

import (
	"net/http"
	"strconv"

	"eventwave/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GET /api/v1/categories
func ListCategories(c *gin.Context) {
	categories, err := catalogService(c).ListCategories()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GET /api/v1/categories/:id
func GetCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "category id must be numeric", nil)
		return
	}

	category, err := catalogService(c).CategoryByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// POST /api/v1/categories
func CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	created, err := catalogService(c).CreateCategory(models.Category{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": created})
}
