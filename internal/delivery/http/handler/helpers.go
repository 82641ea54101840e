package handler

import (
	"net/http"

	"go-medical-marketplace/internal/delivery/http/middleware"
	"go-medical-marketplace/internal/domain/entity"
	"go-medical-marketplace/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// requirePrincipal writes a 401 and returns false when the request carries no session
func requirePrincipal(w http.ResponseWriter, r *http.Request) (*entity.Principal, bool) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return nil, false
	}
	return principal, true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}
