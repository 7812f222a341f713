package delivery

import (
	"net/http"
	"store_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const currentUserKey = "currentUser"

// CurrentUser returns the identity the auth middleware resolved for this
// request, or nil on the public routes.
func CurrentUser(c *gin.Context) *domain.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*domain.User)
	if !ok {
		return nil
	}
	return user
}

// render draws an HTML template with the pending notices and the
// request-scoped user merged into the template data.
func render(c *gin.Context, log *logrus.Logger, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Notices"] = takeNotices(c, log)
	data["CurrentUser"] = CurrentUser(c)
	c.HTML(http.StatusOK, name, data)
}
