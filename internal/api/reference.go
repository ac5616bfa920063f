package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
)

// ReferenceHandler serves the read-only tag and ingredient catalogues.
// Neither is paginated.
type ReferenceHandler struct {
	ingredients service.IIngredientService
	tags        service.ITagService
}

func NewReferenceHandler(ingredients service.IIngredientService, tags service.ITagService) *ReferenceHandler {
	return &ReferenceHandler{ingredients: ingredients, tags: tags}
}

func (h *ReferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ingredients/", h.ListIngredients)
	router.GET("/ingredients/:id/", h.GetIngredient)
	router.GET("/tags/", h.ListTags)
	router.GET("/tags/:id/", h.GetTag)
}

// ListIngredients filters by ?name, best matches first.
func (h *ReferenceHandler) ListIngredients(c *gin.Context) {
	list, err := h.ingredients.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		abort(c, err)
		return
	}
	if list == nil {
		list = []models.Ingredient{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *ReferenceHandler) GetIngredient(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}
	ingredient, err := h.ingredients.Get(c.Request.Context(), id)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func (h *ReferenceHandler) ListTags(c *gin.Context) {
	list, err := h.tags.List(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	if list == nil {
		list = []models.Tag{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *ReferenceHandler) GetTag(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}
	tag, err := h.tags.Get(c.Request.Context(), id)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}
