package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewOKResp returns a new OK response with the given data.
func NewOKResp(data any) Resp {
	return Resp{
		Status: StatusOK,
		Data:   data,
	}
}

// OK sends 200 JSON with status "ok".
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewOKResp(data))
}

// BadPayload sends 500 for malformed/unparseable request bodies.
// Payload-parsing failures are the only handler errors surfaced as non-200.
// The parse error itself is logged at the call site, never echoed to the
// caller.
func BadPayload(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, Resp{
		Status:  StatusError,
		Message: DefaultErrorMessage,
	})
}

// Unavailable sends 503 when the service is not accepting updates.
func Unavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, Resp{
		Status:  StatusUnavailable,
		Message: "service unavailable",
	})
}

// InternalError sends 500 internal server error.
func InternalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, Resp{
		Status:  StatusError,
		Message: DefaultErrorMessage,
	})
}
