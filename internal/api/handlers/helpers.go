package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"traffic-route-service/internal/domain"
	"traffic-route-service/internal/platform/obs"
	"traffic-route-service/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// Request bodies larger than this are rejected.
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithFields(logrus.Fields{
			"req_id": obs.RequestID(r.Context()),
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("encode response failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeBody reads exactly one JSON object into dst and validates it.
// It writes the 400 response itself and reports whether the caller may continue.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}

	fe := verrs[0]
	// Namespace is "Type.json.path"; drop the Go type name.
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed %s=%s validation", field, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

// writeServiceError maps service errors to HTTP statuses without leaking internals.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, services.ErrStaleRequest):
		writeError(w, r, http.StatusConflict, "request superseded by a newer one")
	case errors.Is(err, domain.ErrInvalidLocation):
		writeError(w, r, http.StatusBadRequest, "source and destination need a name and valid coordinates")
	case errors.Is(err, domain.ErrUnknownVariant):
		writeError(w, r, http.StatusBadRequest, "unknown route variant")
	case errors.Is(err, domain.ErrInvalidHour):
		writeError(w, r, http.StatusBadRequest, "hour must be between 0 and 23")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "request timed out")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to send.
		w.WriteHeader(499)
	default:
		logrus.WithFields(logrus.Fields{
			"req_id": obs.RequestID(r.Context()),
			"op":     op,
		}).WithError(err).Error("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
