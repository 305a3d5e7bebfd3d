package handlers

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/utils"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/validator"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// decodeBody reads a JSON body into v. An empty body is accepted when
// optional is set and leaves v untouched.
func decodeBody(r *http.Request, v interface{}, optional bool) *errors.AppError {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.BadRequest("Failed to read request body")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if optional {
			return nil
		}
		return errors.BadRequest("Request body is required")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.BadRequest("Invalid request body")
	}
	return nil
}

// decodeAndValidate decodes the body and runs struct validation on it
func decodeAndValidate(r *http.Request, val *validator.Validator, v interface{}, optional bool) *errors.AppError {
	if appErr := decodeBody(r, v, optional); appErr != nil {
		return appErr
	}
	return val.Check(v)
}

// writeServiceError writes err as is when it is an AppError and as an
// internal error otherwise.
func writeServiceError(w http.ResponseWriter, log *logger.Logger, err error, message string) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		utils.WriteError(w, appErr)
		return
	}
	log.ErrorWithErr(err, message)
	utils.WriteError(w, errors.Internal(message, err))
}
