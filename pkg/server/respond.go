package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
	"github.com/matzehuels/sceneforge/pkg/store"
)

const maxBodySize = 1 << 20

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    sferrors.Code `json:"code"`
	Message string        `json:"message"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case sferrors.IsCanceled(err):
		return http.StatusNoContent
	case sferrors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, store.ErrLoopStopped):
		return http.StatusServiceUnavailable
	}
	switch sferrors.GetCode(err) {
	case sferrors.ErrCodeInvalidInput, sferrors.ErrCodeInvalidName, sferrors.ErrCodeInvalidTag,
		sferrors.ErrCodeInvalidPath, sferrors.ErrCodeInvalidProject, sferrors.ErrCodeCycle:
		return http.StatusBadRequest
	case sferrors.ErrCodeNoProject:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusNoContent {
		s.logger.Debug("canceled", "path", r.URL.Path)
		w.WriteHeader(status)
		return
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}

	code := sferrors.GetCode(err)
	if code == "" {
		code = sferrors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: sferrors.UserMessage(err)}})
}

// respond writes v with status, or the error.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, v any, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if v == nil {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return sferrors.Wrap(sferrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
