package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/goto/jobtrail/internal/errors"
)

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes {"error": "..."} with the status mapped from the error type
func WriteError(w http.ResponseWriter, err error, msg string) {
	httpErr := errors.HTTPErr(err, msg)
	WriteJSON(w, httpErr.Status, httpErr)
}

// QueryBool is true only for the literal true, case insensitive
func QueryBool(r *http.Request, key string) bool {
	return strings.EqualFold(strings.TrimSpace(r.URL.Query().Get(key)), "true")
}

// QueryInt returns fallback when the parameter is absent
func QueryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidArgument("request", "invalid value for "+key+": "+raw)
	}
	return value, nil
}
