// Package web holds small helpers shared by the gin handlers.
package web

import (
	"errors"
	"net/http"

	"NagarSeva/tools/errs"

	"github.com/gin-gonic/gin"
)

// RespondErr maps CodeErrors to their HTTP status; anything else is a 500.
func RespondErr(c *gin.Context, err error) {
	var codeErr *errs.CodeError
	if errors.As(err, &codeErr) {
		c.JSON(HTTPStatus(codeErr.Code), codeErr)
		return
	}
	c.JSON(http.StatusInternalServerError, errs.ErrServerInternal.WithDetail(err.Error()))
}

func HTTPStatus(code int) int {
	switch code {
	case errs.ArgsErrorCode, errs.DuplicateRecordCode:
		return http.StatusBadRequest
	case errs.TokenInvalidCode, errs.TokenExpiredCode, errs.CredentialsCode, errs.ForbiddenCode:
		return http.StatusUnauthorized
	case errs.RecordNotFoundCode:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
