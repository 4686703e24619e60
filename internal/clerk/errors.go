package clerk

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError es un error devuelto por la API del proveedor con status HTTP.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("clerk: %s (status %d)", e.Message, e.Status)
}

// IsNotFound reporta si el error corresponde a una entidad inexistente.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsClientError reporta si el proveedor rechazo el request por datos invalidos.
func IsClientError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500
}
