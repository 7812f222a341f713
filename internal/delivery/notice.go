package delivery

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Notice is the transient status message shown once on the page rendered
// after a redirect.
type Notice struct {
	Category string
	Message  string
}

const (
	NoticeSuccess = "success"
	NoticeError   = "error"
	NoticeWarning = "warning"
)

func init() {
	// Notices travel through the session cookie, which is gob-encoded.
	gob.Register(Notice{})
}

// redirectWithNotice stores the notice in the session flash and issues the
// redirect-after-POST. The notice is drained by the next render.
func redirectWithNotice(c *gin.Context, log *logrus.Logger, location string, notice Notice) {
	session := sessions.Default(c)
	session.AddFlash(notice)
	if err := session.Save(); err != nil {
		log.Errorf("Failed to save session flash for %s: %v", c.Request.URL.Path, err)
	}
	c.Redirect(http.StatusSeeOther, location)
}

// takeNotices drains and returns the pending notices for the current session.
func takeNotices(c *gin.Context, log *logrus.Logger) []Notice {
	session := sessions.Default(c)
	flashes := session.Flashes()
	if len(flashes) > 0 {
		if err := session.Save(); err != nil {
			log.Errorf("Failed to clear session flashes for %s: %v", c.Request.URL.Path, err)
		}
	}

	notices := make([]Notice, 0, len(flashes))
	for _, flash := range flashes {
		if notice, ok := flash.(Notice); ok {
			notices = append(notices, notice)
		}
	}
	return notices
}
