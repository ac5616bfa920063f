package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RedirectShortLink sends /s/<code>/ to the frontend recipe page.
func RedirectShortLink(c *gin.Context) {
	id, err := service.DecodeID(c.Param("code"))
	if err != nil {
		abort(c, types.ErrNotFound)
		return
	}
	c.Redirect(http.StatusFound, baseURL(c)+"/recipes/"+strconv.FormatUint(uint64(id), 10))
}
