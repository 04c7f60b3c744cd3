package controller

import (
	"errors"
	"net/http"

	"github.com/go-jose/go-jose/v4/json"
	"github.com/kraxel/txquery/pkg/query"
	"go.uber.org/zap"
)

type successResponse struct {
	Status string         `json:"status"`
	Data   any            `json:"data"`
	Meta   map[string]any `json:"meta,omitempty"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, data any, meta map[string]any) {
	writeJSON(w, http.StatusOK, successResponse{Status: "success", Data: data, Meta: meta})
}

func writeError(w http.ResponseWriter, code int, kind, msg string) {
	writeJSON(w, code, errorResponse{Status: "error", Kind: kind, Message: msg})
}

// writeQueryError renders a service error. Only the public message is sent.
func (c *Controller) writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	var qe *query.Error
	if !errors.As(err, &qe) {
		c.App.Logger.Error("unexpected handler error", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, string(query.KindInternal), "internal error")
		return
	}
	writeError(w, statusFor(qe.Kind), string(qe.Kind), qe.Message)
}

func statusFor(kind query.Kind) int {
	switch kind {
	case query.KindInvalidArgument:
		return http.StatusBadRequest
	case query.KindNotFound:
		return http.StatusNotFound
	case query.KindUnavailable, query.KindTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
