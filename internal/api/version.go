package api

import (
	"net/http"

	"github.com/ikclouds/not-fight-club/internal/version"

	"github.com/gin-gonic/gin"
)

// Version reports the build of the running server.
func Version(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}
