package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserHandler serves accounts, avatars and subscriptions.
type UserHandler struct {
	userService service.IUserService
	paginator   Paginator
	serializer
}

func NewUserHandler(users service.IUserService, media MediaResolver, paginator Paginator) *UserHandler {
	return &UserHandler{userService: users, paginator: paginator, serializer: serializer{media: media}}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.GET("/", h.List)
		users.POST("/", h.Register)
		users.GET("/me/", requireAuth, h.Me)
		users.PUT("/me/avatar/", requireAuth, h.SetAvatar)
		users.DELETE("/me/avatar/", requireAuth, h.DeleteAvatar)
		users.POST("/set_password/", requireAuth, h.SetPassword)
		users.GET("/subscriptions/", requireAuth, h.Subscriptions)
		users.GET("/:id/", h.Get)
		users.POST("/:id/subscribe/", requireAuth, h.Subscribe)
		users.DELETE("/:id/subscribe/", requireAuth, h.Unsubscribe)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	page, err := h.paginator.Parse(c)
	if err != nil {
		abort(c, err)
		return
	}

	list, count, err := h.userService.List(c.Request.Context(), middleware.Viewer(c), page.Offset(), page.Limit)
	if err != nil {
		abort(c, err)
		return
	}
	if err := page.check(count); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, buildPage(c, page, count, h.users(c, list)))
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		abort(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.RegisteredUserResponse{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id, middleware.Viewer(c))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, h.user(c, user))
}

func (h *UserHandler) Me(c *gin.Context) {
	viewer := middleware.Viewer(c)
	user, err := h.userService.Get(c.Request.Context(), *viewer, viewer)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, h.user(c, user))
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	var req types.AvatarRequest
	if err := bindJSON(c, &req); err != nil {
		abort(c, err)
		return
	}

	userID, _ := middleware.UserID(c)
	user, err := h.userService.SetAvatar(c.Request.Context(), userID, req.Avatar)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, types.AvatarResponse{Avatar: h.mediaURL(c, user.Avatar)})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	if err := h.userService.DeleteAvatar(c.Request.Context(), userID); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		abort(c, err)
		return
	}

	userID, _ := middleware.UserID(c)
	if err := h.userService.SetPassword(c.Request.Context(), userID, &req); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions lists followed authors. ?recipes_limit caps the recipes
// embedded per author.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	page, err := h.paginator.Parse(c)
	if err != nil {
		abort(c, err)
		return
	}

	userID, _ := middleware.UserID(c)
	authors, count, err := h.userService.Subscriptions(c.Request.Context(), userID, page.Offset(), page.Limit)
	if err != nil {
		abort(c, err)
		return
	}
	if err := page.check(count); err != nil {
		abort(c, err)
		return
	}

	limit := recipesLimit(c)
	results := make([]types.AuthorWithRecipesResponse, len(authors))
	for i := range authors {
		results[i] = h.authorWithRecipes(c, &authors[i], limit)
	}
	c.JSON(http.StatusOK, buildPage(c, page, count, results))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	target, err := pathID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}

	userID, _ := middleware.UserID(c)
	author, err := h.userService.Subscribe(c.Request.Context(), userID, target)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.authorWithRecipes(c, author, recipesLimit(c)))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	target, err := pathID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}

	userID, _ := middleware.UserID(c)
	if err := h.userService.Unsubscribe(c.Request.Context(), userID, target); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recipesLimit returns -1 when the parameter is absent or not a
// non-negative integer.
func recipesLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return -1
	}
	return n
}
