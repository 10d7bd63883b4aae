package forms

import (
	"github.com/gin-gonic/gin"

	"github.com/example/kandy/internal/adapters/rest/response"
	"github.com/example/kandy/internal/ports/primary"
)

// LoginForm is the body of POST /auth/login.
type LoginForm struct {
	primary.LoginRequest
}

func NewLoginForm() *LoginForm {
	return &LoginForm{}
}

func (f *LoginForm) ParseAndValidate(c *gin.Context) response.Error {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if verr := decode(c, &request); verr != nil {
		return verr
	}

	errors := make(map[string]response.ErrorMessage)
	f.Email = required(errors, "email", request.Email)
	if request.Password == "" {
		errors["password"] = response.ErrorMessage{Code: response.MissedValue, Message: "missed value"}
	}
	f.Password = request.Password
	return result(errors)
}

// ConvertToMap never includes the password.
func (f *LoginForm) ConvertToMap() map[string]interface{} {
	return map[string]interface{}{"email": f.Email}
}

// CreateUserForm is the body of POST /users.
type CreateUserForm struct {
	primary.CreateUserRequest
}

func NewCreateUserForm() *CreateUserForm {
	return &CreateUserForm{}
}

func (f *CreateUserForm) ParseAndValidate(c *gin.Context) response.Error {
	var request struct {
		FullName       string   `json:"full_name"`
		Email          string   `json:"email"`
		Phone          string   `json:"phone"`
		Role           string   `json:"role"`
		Password       string   `json:"password"`
		Skills         []string `json:"skills"`
		Certifications []string `json:"certifications"`
		EmployeeCode   string   `json:"employee_code"`
	}
	if verr := decode(c, &request); verr != nil {
		return verr
	}

	errors := make(map[string]response.ErrorMessage)
	f.FullName = required(errors, "full_name", request.FullName)
	f.Email = required(errors, "email", request.Email)
	f.Role = required(errors, "role", request.Role)
	if request.Password == "" {
		errors["password"] = response.ErrorMessage{Code: response.MissedValue, Message: "missed value"}
	}
	f.Password = request.Password
	f.Phone = request.Phone
	f.Skills = request.Skills
	f.Certifications = request.Certifications
	f.EmployeeCode = request.EmployeeCode
	return result(errors)
}

func (f *CreateUserForm) ConvertToMap() map[string]interface{} {
	return map[string]interface{}{
		"email": f.Email,
		"role":  f.Role,
	}
}
