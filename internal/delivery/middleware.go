package delivery

import (
	"net/http"
	"store_service/internal/usecase"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const sessionUserKey = "user_id"

// RequestID stamps every request with an id that the request logger and the
// X-Request-ID response header share.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		entry := logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"remote_ip":  c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		})
		if reqID := c.Writer.Header().Get("X-Request-ID"); reqID != "" {
			entry = entry.WithField("request_id", reqID)
		}
		entry.Info("Incoming request")

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		completedEntry := logger.WithFields(logrus.Fields{
			"status_code": statusCode,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"remote_ip":   c.ClientIP(),
			"latency_ms":  latency.Milliseconds(),
		})
		if reqID := c.Writer.Header().Get("X-Request-ID"); reqID != "" {
			completedEntry = completedEntry.WithField("request_id", reqID)
		}

		if len(c.Errors) > 0 {
			completedEntry.Error(c.Errors.ByType(gin.ErrorTypePrivate).String())
		} else {
			if statusCode >= 500 {
				completedEntry.Error("Request completed with server error")
			} else if statusCode >= 400 {
				completedEntry.Warn("Request completed with client error")
			} else {
				completedEntry.Info("Request completed successfully")
			}
		}
	}
}

// RequireAuth gates every non-auth route. It resolves the session's user id
// into a full user once per request and hands it to the handlers through the
// context, so nothing downstream reaches into the session again.
func RequireAuth(userUseCase usecase.UserUseCase, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		userID, ok := session.Get(sessionUserKey).(int64)
		if !ok || userID <= 0 {
			log.Warnf("Middleware: Unauthenticated access to %s", c.Request.URL.Path)
			redirectWithNotice(c, log, "/login", Notice{
				Category: NoticeWarning,
				Message:  "Debes iniciar sesión para acceder a esta página.",
			})
			c.Abort()
			return
		}

		user, err := userUseCase.GetUserByID(userID)
		if err != nil {
			// Stale session pointing at a user that no longer exists.
			log.Warnf("Middleware: Session user ID %d could not be resolved: %v", userID, err)
			session.Clear()
			if saveErr := session.Save(); saveErr != nil {
				log.Errorf("Middleware: Failed to clear stale session: %v", saveErr)
			}
			redirectWithNotice(c, log, "/login", Notice{
				Category: NoticeWarning,
				Message:  "Debes iniciar sesión para acceder a esta página.",
			})
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RedirectIfAuthenticated keeps already-logged-in users out of the login and
// registration pages, sending them to the product list instead.
func RedirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if userID, ok := session.Get(sessionUserKey).(int64); ok && userID > 0 {
			c.Redirect(http.StatusSeeOther, "/productos")
			c.Abort()
			return
		}
		c.Next()
	}
}
