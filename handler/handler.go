package handler

import (
	"net/http"

	"github.com/txix-open/isp-kit/json"
)

const (
	jsonContentType = "application/json"
	textContentType = "text/plain; charset=utf-8"
)

func writeJson(w http.ResponseWriter, statusCode int, body any) error {
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(body)
}

func writeText(w http.ResponseWriter, statusCode int, body string) error {
	w.Header().Set("Content-Type", textContentType)
	w.WriteHeader(statusCode)
	_, err := w.Write([]byte(body))
	return err
}
