package handler

import "net/http"

type healthResponse struct {
	Status string `json:"status"`
}

// Health handles GET /healthz. It returns HTTP 200 with {"status":"ok"}
// when the server is running. Mounted outside the /api prefix so load
// balancers can probe it without a token.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
