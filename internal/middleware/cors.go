package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig covers the booking front-end: the verbs the API routes
// actually use plus the auth and tracing headers it reads and sets.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			HeaderRequestID,
		},
		ExposeHeaders: []string{
			"Content-Length",
			HeaderRequestID,
		},
		AllowCredentials: true,
		MaxAge:           86400,
	}
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin. With
// credentials enabled a wildcard must be echoed back as the concrete origin,
// browsers refuse "*" on credentialed requests.
func (cfg CORSConfig) allowOrigin(origin string) string {
	if origin == "" {
		return "*"
	}
	for _, allowed := range cfg.AllowOrigins {
		switch {
		case allowed == "*" && cfg.AllowCredentials:
			return origin
		case allowed == "*" || allowed == origin:
			return allowed
		}
	}
	return "*"
}

func CORS(cfg CORSConfig) gin.HandlerFunc {
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")
	expose := strings.Join(cfg.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", cfg.allowOrigin(c.GetHeader("Origin")))
		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)
		c.Header("Access-Control-Expose-Headers", expose)
		c.Header("Access-Control-Max-Age", maxAge)
		if cfg.AllowCredentials {
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
