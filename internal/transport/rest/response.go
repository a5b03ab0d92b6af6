package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type errorResponseBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

type successResponseBody struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func successResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func createdResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, successResponseBody{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func noContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponseBody{
		Status:  "error",
		Message: message,
		Code:    statusCode,
	})
}

func badRequestResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message)
}

func notFoundResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusNotFound, message)
}

func internalServerErrorResponse(c *gin.Context) {
	errorResponse(c, http.StatusInternalServerError, "internal server error")
}
