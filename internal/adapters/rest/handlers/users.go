package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/example/kandy/internal/adapters/rest/forms"
	"github.com/example/kandy/internal/adapters/rest/response"
	"github.com/example/kandy/internal/ports/primary"
)

type User struct {
	log   *logrus.Logger
	users primary.UserService
}

func NewUserHandler(users primary.UserService, log *logrus.Logger) *User {
	return &User{
		log:   log,
		users: users,
	}
}

func (h *User) EnrichRoutes(router gin.IRouter) {
	userRoutes := router.Group("/users")
	userRoutes.GET("", h.listUsersAction)
	userRoutes.POST("", h.createUserAction)
	userRoutes.GET("/profile", h.profileAction)
	userRoutes.GET("/electricians", h.listElectriciansAction)
	userRoutes.GET("/:userID", h.getUserAction)
	userRoutes.PATCH("/:userID/status", h.setUserStatusAction)
}

func (h *User) listUsersAction(c *gin.Context) {
	const op = "handlers.User.listUsersAction"
	log := h.log.WithField("operation", op)

	users, err := h.users.ListUsers(c.Request.Context(), primary.UserFilters{
		Role:   c.Query("role"),
		Status: c.Query("status"),
	})
	if err != nil {
		fail(log, c, err, "failed to list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

func (h *User) createUserAction(c *gin.Context) {
	const op = "handlers.User.createUserAction"
	log := h.log.WithField("operation", op)

	form := forms.NewCreateUserForm()
	if verr := form.ParseAndValidate(c); verr != nil {
		response.HandleError(verr, c)
		return
	}
	log.WithFields(form.ConvertToMap()).Info("create user")

	user, err := h.users.CreateUser(c.Request.Context(), form.CreateUserRequest)
	if err != nil {
		fail(log, c, err, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *User) profileAction(c *gin.Context) {
	const op = "handlers.User.profileAction"
	log := h.log.WithField("operation", op)

	user, err := h.users.GetProfile(c.Request.Context())
	if err != nil {
		fail(log, c, err, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *User) listElectriciansAction(c *gin.Context) {
	const op = "handlers.User.listElectriciansAction"
	log := h.log.WithField("operation", op)

	electricians, err := h.users.ListElectricians(c.Request.Context())
	if err != nil {
		fail(log, c, err, "failed to list electricians")
		return
	}

	c.JSON(http.StatusOK, gin.H{"electricians": electricians, "count": len(electricians)})
}

func (h *User) getUserAction(c *gin.Context) {
	const op = "handlers.User.getUserAction"
	log := h.log.WithField("operation", op)

	user, err := h.users.GetUser(c.Request.Context(), c.Param("userID"))
	if err != nil {
		fail(log, c, err, "failed to get user")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *User) setUserStatusAction(c *gin.Context) {
	const op = "handlers.User.setUserStatusAction"
	log := h.log.WithField("operation", op)

	form := forms.NewChangeStatusForm()
	if verr := form.ParseAndValidate(c); verr != nil {
		response.HandleError(verr, c)
		return
	}
	log.WithFields(form.ConvertToMap()).Info("set user status")

	user, err := h.users.SetUserStatus(c.Request.Context(), c.Param("userID"), form.Status)
	if err != nil {
		fail(log, c, err, "failed to set user status")
		return
	}

	c.JSON(http.StatusOK, user)
}
