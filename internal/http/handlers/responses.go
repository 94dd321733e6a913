package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/hongminglow/nebula-be/internal/http/respond"
	"github.com/hongminglow/nebula-be/internal/storage"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON document into dst, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

// storeFailure maps storage sentinels onto 404/409 and everything else onto 500.
func storeFailure(w http.ResponseWriter, logger *slog.Logger, op string, err error, notFound, conflict string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, notFound)
	case errors.Is(err, storage.ErrAlreadyExists) && conflict != "":
		respond.Error(w, http.StatusConflict, conflict)
	default:
		logger.Error(op+" failed", "err", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
