package handlers

import (
	"net/http"

	"github.com/bigheart-studio/studio-booking/gate"
	"github.com/bigheart-studio/studio-booking/model"
)

// AdminLogin checks the submitted password against the admin gate.
func (h *Handlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	_, span := tracer.Start(r.Context(), "AdminLogin")
	defer span.End()

	var req model.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, span, err)
		return
	}

	if h.gate.Check(req.Password) != gate.Granted {
		respondError(w, span, NewClientError(http.StatusUnauthorized, "Invalid password"))
		return
	}

	writeJSON(w, http.StatusOK, model.LoginResult{Success: true, Token: gate.Token})
}
