package response

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/yoga-admission/pkg/errors"
)

// Envelope is the response contract of the enrollment endpoint. Failures carry
// a plain "error" string so form clients can show it verbatim.
type Envelope struct {
	Data    interface{}            `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Code    string                 `json:"code,omitempty"`
	Details interface{}            `json:"details,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Data: data}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error, details ...interface{}) {
	appErr := appErrors.FromError(err)
	_ = c.Error(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Error: appErr.Message, Code: appErr.Code}
	if len(details) > 0 {
		envelope.Details = details[0]
	}
	c.JSON(appErr.Status, envelope)
}
