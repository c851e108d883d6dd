package http

import (
	"net/http"

	"bizspese/internal/core"
	applog "bizspese/internal/log"
	"bizspese/internal/services"
)

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.Wallets.List(r.Context())
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	if entries == nil {
		entries = []core.WalletEntry{}
	}
	NewJSONResponse().Body(entries).Write(w)
}

// handleCurrentWallet returns the most recently updated entry, 404 when
// there is none.
func (s *Server) handleCurrentWallet(w http.ResponseWriter, r *http.Request) {
	cur, err := s.svc.Wallets.Current(r.Context())
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	NewJSONResponse().Body(cur).Write(w)
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var in services.WalletInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	in.Description = sanitizeInput(in.Description)

	entry, err := s.svc.Wallets.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	s.mutated()
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/expense-wallets/"+entry.ID).
		Body(entry).
		Write(w)
}

func (s *Server) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	entry, err := s.svc.Wallets.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	NewJSONResponse().Body(entry).Write(w)
}

func (s *Server) handleUpdateWallet(w http.ResponseWriter, r *http.Request) {
	var u core.WalletEntryUpdate
	if err := decodeJSON(w, r, &u); err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	u.Description = sanitizePtr(u.Description)

	entry, err := s.svc.Wallets.Update(r.Context(), r.PathValue("id"), u)
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	s.mutated()
	NewJSONResponse().Body(entry).Write(w)
}

func (s *Server) handleDeleteWallet(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Wallets.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	s.mutated()
	NoContent().Write(w)
}
