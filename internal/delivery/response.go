package delivery

import (
	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "Success"
	statusFail    = "Fail"
)

type Response struct {
	Status  string      `json:"Status"`
	Message string      `json:"Message"`
	Data    interface{} `json:"Data,omitempty"`
}

func respond(c *gin.Context, statusCode int, status, message string, data interface{}) {
	c.JSON(statusCode, Response{Status: status, Message: message, Data: data})
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	respond(c, statusCode, statusSuccess, message, data)
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	respond(c, statusCode, statusFail, message, nil)
}

// FailResponse is ErrorResponse with a payload, used when the client still
// needs current state, such as the unchanged cart totals after a failed mutation.
func FailResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	respond(c, statusCode, statusFail, message, data)
}
