package delivery_http

import (
	"encoding/json"
	"net/http"
)

type healthResponse struct {
	Healthy bool `json:"healthy"`
}

// healthHandler always reports healthy. It does not check dependencies.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{Healthy: true})
}
