package httpapi

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder/commands"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error  string                   `json:"error"`
	Fields []pagebuilder.FieldError `json:"fields,omitempty"`
}

// ErrorStatus maps page builder errors onto HTTP status codes.
func ErrorStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, commands.ErrInvalidInput),
		errors.Is(err, pagebuilder.ErrSchemaValidation),
		errors.Is(err, pagebuilder.ErrUnknownWidgetType):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pagebuilder.ErrNotFound),
		errors.Is(err, pagebuilder.ErrPageNotPublished):
		return http.StatusNotFound
	case errors.Is(err, pagebuilder.ErrRevisionConflict),
		errors.Is(err, pagebuilder.ErrSlugTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse builds the error body, listing invalid fields when known.
func NewErrorResponse(err error) ErrorResponse {
	resp := ErrorResponse{Error: err.Error()}
	var inputErr *commands.InputError
	if errors.As(err, &inputErr) {
		resp.Fields = inputErr.Fields
		return resp
	}
	resp.Fields = pagebuilder.FieldErrorsFor(err)
	return resp
}
