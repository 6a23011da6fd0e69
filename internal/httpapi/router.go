package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter configures the request surface's routes: middleware first,
// then the route table.
func (s *Server) NewRouter() *mux.Router {
	r := mux.NewRouter()

	r.Use(Recover(s.Log))
	r.Use(RequestLogger(s.Log))
	r.Use(JSONHeaders)

	r.HandleFunc("/execute", s.handleExecute).Methods(http.MethodPost)
	r.HandleFunc("/prove/{kind}", s.handleProve).Methods(http.MethodPost)
	r.HandleFunc("/proof/{id}", s.handleProofStatus).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS)

	return r
}
