// Package forms parses request bodies into service requests. Forms check
// structure and required fields; format rules are enforced by the services.
package forms

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/example/kandy/internal/adapters/rest/response"
)

// Former is implemented by every request form.
type Former interface {
	ParseAndValidate(c *gin.Context) response.Error
	ConvertToMap() map[string]interface{}
}

func decode(c *gin.Context, request any) response.Error {
	body, err := io.ReadAll(c.Request.Body)
	defer c.Request.Body.Close()

	if err != nil {
		log.WithError(err).Error("unable to read body")
		return response.NewInternalError()
	}

	if err := json.Unmarshal(body, request); err != nil {
		ve := response.NewValidationError()
		ve.SetError(response.GeneralErrorKey, response.InvalidRequestStructure, "invalid request structure")
		return ve
	}
	return nil
}

func required(errors map[string]response.ErrorMessage, field, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		errors[field] = response.ErrorMessage{
			Code:    response.MissedValue,
			Message: "missed value",
		}
	}
	return value
}

func result(errors map[string]response.ErrorMessage) response.Error {
	if len(errors) > 0 {
		return response.NewValidationError(errors)
	}
	return nil
}
