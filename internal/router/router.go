package router

import (
	"net/http"

	"careportal/internal/controller"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(c *controller.Controller) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/ping", c.Ping)
	mux.HandleFunc("GET /api/v1/clients/{clientId}/organisations", c.GetOrganisations)
	mux.HandleFunc("PUT /api/v1/clients/{clientId}/organisations", c.ReplaceOrganisations)
	mux.HandleFunc("POST /api/v1/clients/{clientId}/organisations/reset", c.ResetOrganisations)
	mux.HandleFunc("POST /api/v1/clients/{clientId}/organisations/{orgId}", c.UpdateOrganisation)
	mux.HandleFunc("GET /api/v1/clients/{clientId}/role", c.ClientRole)
	mux.HandleFunc("PUT /api/v1/clients/{clientId}/role", c.SetClientRole)
	mux.HandleFunc("GET /api/v1/help/target", c.HelpTarget)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("page not found"))
	})

	return withCORS(withRequestId(withMetrics(mux)))
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Accept", "*/*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRequestId tags every response with an X-Request-Id, generating one
// when the caller did not send theirs.
func withRequestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}
