package handlers

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	apiContext "projecthub/internal/api/context"
	"projecthub/internal/engine/invites"
	"projecthub/internal/pkg/errors"
	"projecthub/internal/platform/auth"
)

type InviteHandler struct {
	ledger *invites.Ledger
}

func NewInviteHandler(ledger *invites.Ledger) *InviteHandler {
	return &InviteHandler{ledger: ledger}
}

// GetQRCode renders the join link of an invite as a PNG. Owners only.
func (h *InviteHandler) GetQRCode(w http.ResponseWriter, r *http.Request) {
	ps := r.Context().Value(apiContext.Params).(httprouter.Params)
	code := ps.ByName("code")

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid size", nil)
			return
		}
		size = parsed
	}

	png, err := h.ledger.QRCode(r.Context(), auth.FromContext(r.Context()), code, size)
	if err != nil {
		errors.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Write(png)
}
