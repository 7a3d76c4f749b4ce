package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeKit/internal/theme"
)

// ListThemes returns the preset catalog in display order.
func ListThemes(c *gin.Context) {
	c.JSON(http.StatusOK, theme.List())
}

func GetTheme(c *gin.Context) {
	t, err := theme.Get(theme.ID(c.Param("id")))
	if err != nil {
		NotFound(c, "theme not found")
		return
	}
	c.JSON(http.StatusOK, t)
}
