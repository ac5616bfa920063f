package api

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipeService service.IRecipeService
	paginator     Paginator
	serializer
}

func NewRecipeHandler(recipes service.IRecipeService, media MediaResolver, paginator Paginator) *RecipeHandler {
	return &RecipeHandler{recipeService: recipes, paginator: paginator, serializer: serializer{media: media}}
}

// RegisterRoutes mounts the recipe endpoints. createLimit runs before
// recipe creation and may be nil.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth, createLimit gin.HandlerFunc) {
	create := []gin.HandlerFunc{requireAuth}
	if createLimit != nil {
		create = append(create, createLimit)
	}
	create = append(create, h.Create)

	recipes := router.Group("/recipes")
	{
		recipes.GET("/", h.List)
		recipes.POST("/", create...)
		recipes.GET("/download_shopping_cart/", requireAuth, h.DownloadShoppingCart)
		recipes.GET("/:id/", h.Get)
		recipes.PUT("/:id/", requireAuth, h.Replace)
		recipes.PATCH("/:id/", requireAuth, h.Patch)
		recipes.DELETE("/:id/", requireAuth, h.Delete)
		recipes.GET("/:id/get-link/", h.GetLink)
		recipes.POST("/:id/favorite/", requireAuth, h.Favorite)
		recipes.DELETE("/:id/favorite/", requireAuth, h.Unfavorite)
		recipes.POST("/:id/shopping_cart/", requireAuth, h.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart/", requireAuth, h.RemoveFromShoppingCart)
	}
}

func (h *RecipeHandler) List(c *gin.Context) {
	page, err := h.paginator.Parse(c)
	if err != nil {
		abort(c, err)
		return
	}
	filter, err := parseRecipeFilter(c)
	if err != nil {
		abort(c, err)
		return
	}

	list, count, err := h.recipeService.List(c.Request.Context(), middleware.Viewer(c), filter, page.Offset(), page.Limit)
	if err != nil {
		abort(c, err)
		return
	}
	if err := page.check(count); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, buildPage(c, page, count, h.recipes(c, list)))
}

func parseRecipeFilter(c *gin.Context) (service.RecipeFilter, error) {
	var f service.RecipeFilter
	verr := types.NewValidationError()

	if raw := c.Query("author"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			verr.Add("author", "Enter a number.")
		} else {
			author := uint(id)
			f.AuthorID = &author
		}
	}
	f.TagSlugs = c.QueryArray("tags")

	for name, dst := range map[string]**bool{
		"is_favorited":        &f.IsFavorited,
		"is_in_shopping_cart": &f.IsInShoppingCart,
	} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			verr.Add(name, "Enter a valid boolean.")
			continue
		}
		*dst = &v
	}
	return f, verr.OrNil()
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), id, middleware.Viewer(c))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, h.recipe(c, recipe))
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req types.RecipeWriteRequest
	if err := bindJSON(c, &req); err != nil {
		abort(c, err)
		return
	}

	userID, _ := middleware.UserID(c)
	recipe, err := h.recipeService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.recipe(c, recipe))
}

func (h *RecipeHandler) Replace(c *gin.Context) {
	h.update(c, types.WriteReplace)
}

func (h *RecipeHandler) Patch(c *gin.Context) {
	h.update(c, types.WritePartial)
}

func (h *RecipeHandler) update(c *gin.Context, mode types.WriteMode) {
	id, err := pathID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}
	var req types.RecipeWriteRequest
	if err := bindJSON(c, &req); err != nil {
		abort(c, err)
		return
	}

	userID, _ := middleware.UserID(c)
	recipe, err := h.recipeService.Update(c.Request.Context(), id, userID, &req, mode)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, h.recipe(c, recipe))
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}

	userID, _ := middleware.UserID(c)
	if err := h.recipeService.Delete(c.Request.Context(), id, userID); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}
	if err := h.recipeService.Exists(c.Request.Context(), id); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, types.ShortLinkResponse{
		ShortLink: baseURL(c) + "/s/" + service.EncodeID(id) + "/",
	})
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.link(c, h.recipeService.Favorite)
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.unlink(c, h.recipeService.Unfavorite)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.link(c, h.recipeService.AddToShoppingCart)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.unlink(c, h.recipeService.RemoveFromShoppingCart)
}

func (h *RecipeHandler) link(c *gin.Context, add func(ctx context.Context, userID, recipeID uint) (*models.Recipe, error)) {
	id, err := pathID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}

	userID, _ := middleware.UserID(c)
	recipe, err := add(c.Request.Context(), userID, id)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.recipeShort(c, recipe))
}

func (h *RecipeHandler) unlink(c *gin.Context, remove func(ctx context.Context, userID, recipeID uint) error) {
	id, err := pathID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}

	userID, _ := middleware.UserID(c)
	if err := remove(c.Request.Context(), userID, id); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart sends the summed ingredients of every recipe in the
// user's shopping list as CSV.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	items, err := h.recipeService.ShoppingList(c.Request.Context(), userID)
	if err != nil {
		abort(c, err)
		return
	}

	var buf bytes.Buffer
	if err := service.WriteShoppingListCSV(&buf, items); err != nil {
		abort(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="shopping_list.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
