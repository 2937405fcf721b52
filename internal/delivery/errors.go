package delivery

import (
	"errors"
	"net/http"

	"pizzahunt/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyCart), errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage is what the client sees for err. Internal errors are not exposed.
func errorMessage(err error, statusCode int) string {
	switch {
	case statusCode == http.StatusInternalServerError:
		return "Internal server error"
	case errors.Is(err, domain.ErrEmptyCart):
		return domain.ErrEmptyCart.Error()
	default:
		return err.Error()
	}
}

func respondError(c *gin.Context, log *logrus.Logger, action string, err error) {
	statusCode := mapErrorToStatus(err)
	if statusCode >= http.StatusInternalServerError {
		log.Errorf("%s: %v", action, err)
	} else {
		log.Warnf("%s: %v", action, err)
	}
	ErrorResponse(c, statusCode, action+": "+errorMessage(err, statusCode))
}
