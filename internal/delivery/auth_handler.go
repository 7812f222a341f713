package delivery

import (
	"errors"
	"fmt"
	"store_service/internal/domain"
	"store_service/internal/usecase"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	userUseCase usecase.UserUseCase
	log         *logrus.Logger
}

func NewAuthHandler(uc usecase.UserUseCase, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		userUseCase: uc,
		log:         logger,
	}
}

// RegisterRoutes wires the public session-lifecycle routes.
func (h *AuthHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/registro", h.ShowRegister)
	router.POST("/registro", h.Register)
	router.GET("/login", RedirectIfAuthenticated(), h.ShowLogin)
	router.POST("/login", h.Login)
}

// RegisterProtectedRoutes wires the routes that need a live session.
func (h *AuthHandler) RegisterProtectedRoutes(router gin.IRouter) {
	router.GET("/logout", h.Logout)
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	render(c, h.log, "registro.html", nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirm_password")

	_, err := h.userUseCase.RegisterUser(username, password, confirmPassword)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			redirectWithNotice(c, h.log, "/registro", Notice{Category: NoticeError, Message: validationErr.Message})
			return
		}
		h.log.Errorf("Failed to register user %q: %v", username, err)
		redirectWithNotice(c, h.log, "/registro", Notice{
			Category: NoticeError,
			Message:  "Ocurrió un error inesperado al registrar el usuario. Inténtalo de nuevo.",
		})
		return
	}

	redirectWithNotice(c, h.log, "/login", Notice{
		Category: NoticeSuccess,
		Message:  "¡Registro exitoso! Ahora puedes iniciar sesión.",
	})
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	render(c, h.log, "login.html", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.userUseCase.AuthenticateUser(username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			redirectWithNotice(c, h.log, "/login", Notice{
				Category: NoticeError,
				Message:  "Inicio de sesión fallido. Revisa tu nombre de usuario y contraseña.",
			})
			return
		}
		h.log.Errorf("Failed to authenticate user %q: %v", username, err)
		redirectWithNotice(c, h.log, "/login", Notice{
			Category: NoticeError,
			Message:  "Ocurrió un error inesperado. Inténtalo de nuevo.",
		})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		h.log.Errorf("Failed to save session for user ID %d: %v", user.ID, err)
		redirectWithNotice(c, h.log, "/login", Notice{
			Category: NoticeError,
			Message:  "Ocurrió un error inesperado. Inténtalo de nuevo.",
		})
		return
	}

	h.log.Infof("User %s (ID: %d) logged in", user.Username, user.ID)
	redirectWithNotice(c, h.log, "/productos", Notice{
		Category: NoticeSuccess,
		Message:  fmt.Sprintf("¡Bienvenido, %s! Has iniciado sesión con éxito.", user.Username),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		h.log.Errorf("Failed to clear session on logout: %v", err)
	}
	redirectWithNotice(c, h.log, "/login", Notice{
		Category: NoticeSuccess,
		Message:  "Has cerrado sesión exitosamente.",
	})
}
