package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleHealthcheck godoc
// @Summary      Show the status of server
// @Description  Get the status of server
// @Tags         healthcheck
// @Produce      plain
// @Success      200  "OK"
// @Router       /healthcheck [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.String(http.StatusOK, "OK")
}
