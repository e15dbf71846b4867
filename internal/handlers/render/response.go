package render

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS header values shared by every endpoint
const (
	AllowOrigin       = "*"
	AllowMethods      = "GET, POST, PUT, DELETE, OPTIONS"
	AllowHeaders      = "Content-Type, Authorization"
	PreflightHeaders  = "Content-Type, Authorization, x-requested-with"
	PreflightMaxAge   = "86400"
	MessageNotFound   = "Not found"
	MessageInternal   = "Internal server error"
	MessageNoSongs    = "No songs found"
	MessageNoSuchSong = "Song not found"
)

// ErrorResponse is the body of every non-success response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SetOrigin adds the header every response carries
func SetOrigin(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", AllowOrigin)
}

// Preflight answers a CORS preflight request with an empty 200
func Preflight(c *gin.Context) {
	SetOrigin(c)
	c.Header("Access-Control-Allow-Methods", AllowMethods)
	c.Header("Access-Control-Allow-Headers", PreflightHeaders)
	c.Header("Access-Control-Max-Age", PreflightMaxAge)
	c.AbortWithStatus(http.StatusOK)
}

// JSON writes a success body and advertises the allowed methods and headers
func JSON(c *gin.Context, status int, body interface{}) {
	SetOrigin(c)
	c.Header("Access-Control-Allow-Methods", AllowMethods)
	c.Header("Access-Control-Allow-Headers", AllowHeaders)
	c.JSON(status, body)
}

// Error writes the error envelope. Only the origin header is set.
func Error(c *gin.Context, status int, message string) {
	SetOrigin(c)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}
