package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"hospital-admin-go/pkg/logger"
)

const (
	undefinedTable            = "42P01"
	invalidTextRepresentation = "22P02"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorCase maps a domain error to the response a client gets for it.
type ErrorCase struct {
	Err     error
	Status  int
	Code    string
	Message string
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, status, payload)
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	return decodeJSON(r, dst)
}

// WriteServiceError logs err and writes the matching case, a table_missing
// error when the schema was never applied, invalid_input when Postgres
// rejects a malformed value such as a non-uuid id, or a generic internal
// error.
func WriteServiceError(w http.ResponseWriter, log logger.Logger, op string, err error, cases []ErrorCase, args ...any) {
	for _, c := range cases {
		if errors.Is(err, c.Err) {
			log.BusinessError(op, err, args...)
			writeError(w, c.Status, c.Code, c.Message)
			return
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case undefinedTable:
			log.InternalError(op+": table missing", err, args...)
			writeError(w, http.StatusInternalServerError, "table_missing", "Bảng dữ liệu chưa được tạo. Vui lòng chạy script SQL khởi tạo cơ sở dữ liệu.")
			return
		case invalidTextRepresentation:
			log.BusinessError(op, err, args...)
			writeError(w, http.StatusBadRequest, "invalid_input", "Mã định danh hoặc dữ liệu không hợp lệ.")
			return
		}
	}

	log.InternalError(op, err, args...)
	writeError(w, http.StatusInternalServerError, "internal_error", "Đã xảy ra lỗi, vui lòng thử lại.")
}

// WriteFile sends an attachment such as an xlsx export.
func WriteFile(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
