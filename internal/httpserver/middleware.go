package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gncitizen/pkg/auth"
	"gncitizen/pkg/metrics"
	"gncitizen/pkg/rbac"
	"gncitizen/pkg/trace"
)

// TraceMiddleware puts the request trace id into the context and echoes it
// back in the response header.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := trace.FromHeader(c.GetHeader(trace.HeaderName))
		c.Request = c.Request.WithContext(trace.WithContext(c.Request.Context(), traceID))
		c.Header(trace.HeaderName, traceID)
		c.Next()
	}
}

// RequestLogger logs one line per request and records its duration.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(c.Request.Method, route, strconv.Itoa(status), latency)

		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("trace_id", trace.FromContext(c.Request.Context())),
		)
	}
}

// AuthMiddleware requires a valid bearer token. With an empty secret every
// request is refused so that admin routes are never left open.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSecret == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin access disabled"})
			return
		}

		token := auth.ExtractToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
			return
		}

		claims, err := auth.ParseJWT(token, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequirePermission refuses requests whose token role lacks permission.
// It must run after AuthMiddleware.
func RequirePermission(logger *zap.Logger, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt(ctxUserID)
		role := c.GetString(ctxRole)

		if err := rbac.CheckPermission(userID, role, permission); err != nil {
			logger.Warn("Permission denied",
				zap.Int("user_id", userID),
				zap.String("role", role),
				zap.String("permission", permission),
				zap.String("trace_id", trace.FromContext(c.Request.Context())),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": err.Error()})
			return
		}
		c.Next()
	}
}

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)
