package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ConfigCORS allows the configured frontend origins to call the API with
// credentials. An empty list keeps the gin-contrib defaults.
func ConfigCORS(allowedDomains string) gin.HandlerFunc {
	conf := cors.DefaultConfig()
	conf.AllowCredentials = true
	conf.AddAllowHeaders("Authorization")
	conf.MaxAge = 12 * time.Hour

	domains := strings.Split(allowedDomains, ",")
	if len(domains) == 1 && domains[0] == "" {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = domains
	}

	return cors.New(conf)
}
