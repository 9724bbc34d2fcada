package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"store-backend/internal/apperrors"
	"store-backend/internal/logger"
	"store-backend/internal/middleware"
	"store-backend/internal/services"
	"store-backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

// respondError writes the error envelope; server-side failures are logged
// with the underlying cause, which never reaches the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	if status := apperrors.HTTPStatus(err); status >= 500 {
		logger.L().Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
			zap.Int("status", status),
			zap.Error(err))
	}
	utils.Error(w, err)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	return nil
}

// queryInt returns 0 for a missing or unparseable parameter.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil {
		return 0
	}
	return n
}

func sendDownload(w http.ResponseWriter, d *services.Download) {
	safe := strings.ReplaceAll(d.FileName, `"`, "'")
	w.Header().Set("Content-Type", d.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, safe, url.PathEscape(safe)))
	w.Header().Set("Content-Length", strconv.Itoa(len(d.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.Body)
}
