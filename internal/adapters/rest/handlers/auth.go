package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/example/kandy/internal/adapters/rest/forms"
	"github.com/example/kandy/internal/adapters/rest/response"
	"github.com/example/kandy/internal/ports/primary"
	"github.com/example/kandy/internal/version"
)

type Auth struct {
	log  *logrus.Logger
	auth primary.AuthService
}

func NewAuthHandler(auth primary.AuthService, log *logrus.Logger) *Auth {
	return &Auth{
		log:  log,
		auth: auth,
	}
}

// Login handles POST /auth/login. It is mounted outside the bearer-protected group.
func (h *Auth) Login(c *gin.Context) {
	const op = "handlers.Auth.Login"
	log := h.log.WithField("operation", op)

	form := forms.NewLoginForm()
	if verr := form.ParseAndValidate(c); verr != nil {
		response.HandleError(verr, c)
		return
	}
	log = log.WithFields(form.ConvertToMap())

	resp, err := h.auth.Login(c.Request.Context(), form.LoginRequest)
	if err != nil {
		log.WithError(err).Warn("login failed")
		response.HandleError(err, c)
		return
	}

	log.Info("login")
	c.JSON(http.StatusOK, resp)
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.String()})
}
