package handlers

import (
	"errors"
	"net/http"

	"TODOAPP_BACK-END/internal/common"
	"TODOAPP_BACK-END/internal/logging"
	"TODOAPP_BACK-END/internal/utils"
)

// errorMessages customises the wording per endpoint.
type errorMessages struct {
	notFound string
	internal string
}

var defaultMessages = errorMessages{notFound: "Not found", internal: "Internal Error"}

// writeServiceError maps a service error to its status code and body.
func writeServiceError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error, msgs errorMessages) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Bad Request", ve.Message)
	case errors.Is(err, common.ErrValidation):
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, common.ErrInvalidID):
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Bad Request", "Invalid ID")
	case errors.Is(err, common.ErrDuplicateEmail):
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Bad Request", "Email already registered")
	case errors.Is(err, common.ErrInvalidCredentials):
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid email/password")
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "unauthorised")
	case errors.Is(err, common.ErrNotFound):
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", msgs.notFound)
	default:
		log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error", msgs.internal)
	}
}
