package http

import (
	"net/http"

	applog "bizspese/internal/log"
)

// handleListExpenses answers {expenses, totalCount, hasMore}.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	q, err := parseExpenseQuery(r.URL.Query(), s.loc)
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	page, err := s.svc.Expenses.List(r.Context(), q)
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	NewJSONResponse().Body(page).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	in, err := req.input(s.now(), s.loc)
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}

	e, err := s.svc.Expenses.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	s.mutated()
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/expenses/"+e.ID).
		Body(e).
		Write(w)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.svc.Expenses.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	NewJSONResponse().Body(e).Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	u, err := req.update(s.loc)
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}

	e, err := s.svc.Expenses.Update(r.Context(), r.PathValue("id"), u)
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	s.mutated()
	NewJSONResponse().Body(e).Write(w)
}

// handleDeleteExpense removes the expense for good.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Expenses.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	s.mutated()
	NoContent().Write(w)
}
