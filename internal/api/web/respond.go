// Package web holds the JSON response helpers shared by the HTTP handlers.
package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// RespondJSON writes payload as JSON. A nil payload writes only the status.
func RespondJSON(w http.ResponseWriter, log logrus.FieldLogger, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Error("Error encoding response to JSON")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func RespondError(w http.ResponseWriter, log logrus.FieldLogger, status int, message string) {
	RespondJSON(w, log, status, map[string]string{"error": message})
}

// ParseID reads the integer {id} path parameter, answering 400 when it is not one
func ParseID(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		RespondError(w, log, http.StatusBadRequest, fmt.Sprintf("Invalid ID: %s", raw))
		return 0, false
	}
	return id, true
}
