package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"invoice-gateway/internal/config"
	"invoice-gateway/internal/logging"
)

const contentType = "application/json"

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type statusBody struct {
	Status string `json:"status"`
}

func main() {
	port := config.GetString("GREENFIELD_MOCK_PORT", "8085")
	apiKey := config.GetString("GREENFIELD_API_KEY", "")
	logger := logging.GetLogger(config.Logs{
		URL:   config.GetString("LOKI_URL", ""),
		Level: config.GetString("LOG_LEVEL", "info"),
	}).With("component", "greenfield-mock")

	store := newInvoiceStore("http://localhost:"+port, time.Now)
	handler := loggingMiddleware(logger, tokenAuth(apiKey, newMux(store)))

	logger.Info("Starting Greenfield mock", "port", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		logger.Error("Greenfield mock stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(store *invoiceStore) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/stores/{storeId}/invoices", listHandler(store))
	mux.HandleFunc("POST /api/v1/stores/{storeId}/invoices", createHandler(store))
	mux.HandleFunc("POST /api/v1/stores/{storeId}/invoices/{$}", createHandler(store))
	mux.HandleFunc("GET /api/v1/stores/{storeId}/invoices/{invoiceId}", getHandler(store))
	mux.HandleFunc("POST /api/v1/stores/{storeId}/invoices/{invoiceId}/status", statusHandler(store))
	return mux
}

func listHandler(store *invoiceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.list(r.PathValue("storeId")))
	}
}

func createHandler(store *invoiceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, []validationError{{Path: "", Message: "Invalid JSON body"}})
			return
		}
		if errs := validateCreate(body); len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, errs)
			return
		}
		writeJSON(w, http.StatusOK, store.create(r.PathValue("storeId"), body))
	}
}

func getHandler(store *invoiceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, ok := store.get(r.PathValue("storeId"), r.PathValue("invoiceId"))
		if !ok {
			writeNotFound(w)
			return
		}
		writeJSON(w, http.StatusOK, inv)
	}
}

func statusHandler(store *invoiceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body statusBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, []validationError{{Path: "", Message: "Invalid JSON body"}})
			return
		}

		inv, found, errs := store.markStatus(r.PathValue("storeId"), r.PathValue("invoiceId"), body.Status)
		switch {
		case len(errs) > 0:
			writeJSON(w, http.StatusBadRequest, errs)
		case !found:
			writeNotFound(w)
		default:
			writeJSON(w, http.StatusOK, inv)
		}
	}
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, apiError{Code: "invoice-not-found", Message: "The invoice was not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}
