package api

import "github.com/gin-gonic/gin"

// Envelope is the shape shared by every successful response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// ErrorEnvelope is the shape shared by every error response.
type ErrorEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Details interface{} `json:"details,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

func OK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorEnvelope{Success: false, Message: message, Status: status})
}

func FailWithDetails(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorEnvelope{Success: false, Message: message, Status: status, Details: details})
}
