package httpapi

import (
	"encoding/json"
	"net/http"
)

// envelope is the standard single-object response body.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// listEnvelope wraps collections with pagination metadata.
type listEnvelope struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Data     any    `json:"data"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// errorEnvelope carries both message and detail so clients probing either
// field get something useful.
type errorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Code: status, Message: "ok", Data: data})
}

func writeList(w http.ResponseWriter, data any, total, page, pageSize int) {
	writeJSON(w, http.StatusOK, listEnvelope{
		Code: http.StatusOK, Message: "ok",
		Data: data, Total: total, Page: page, PageSize: pageSize,
	})
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorEnvelope{
		Code:    status,
		Message: http.StatusText(status),
		Detail:  detail,
	})
}
