package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Neruaka/budget-app/internal/core"
	"github.com/Neruaka/budget-app/internal/ports"
	"github.com/Neruaka/budget-app/internal/services"
)

type errorBody struct {
	Error string `json:"error"`
}

type conflictBody struct {
	Error    string            `json:"error"`
	Existing core.BudgetRecord `json:"existing"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain and repository errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var exists *ports.BudgetExistsError
	switch {
	case errors.As(err, &exists):
		writeJSON(w, http.StatusConflict, conflictBody{
			Error:    exists.Error(),
			Existing: exists.Existing.Record(),
		})
	case errors.Is(err, ports.ErrExpenseNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "expense not found"})
	case errors.Is(err, ports.ErrBudgetNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "budget not found"})
	case core.IsValidationError(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err, "method", r.Method, "url", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

type addExpenseRequest struct {
	Amount      core.Money `json:"amount"`
	Category    string     `json:"category"`
	UserID      string     `json:"userId"`
	Description string     `json:"description"`
	Month       int        `json:"month"`
	Year        int        `json:"year"`
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			writeJSON(w, http.StatusUnprocessableEntity, services.AddExpenseResult{
				Success: false,
				Error:   core.ErrInvalidAmount.Error(),
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	result, err := s.expenses.AddExpense(r.Context(), services.AddExpenseInput{
		UserID:      req.UserID,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Month:       req.Month,
		Year:        req.Year,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !result.Success {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	month, year := req.Month, req.Year
	now := time.Now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	s.invalidateUser(req.UserID, year, month)

	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	if cached, found := s.expenseCache.Get(userID); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	records, err := s.expenses.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.expenseCache.Set(userID, records)
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleListExpensesByPeriod(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	year, month, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	records, err := s.expenses.ListByPeriod(r.Context(), userID, month, year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type updateExpenseRequest struct {
	Amount      *core.Money `json:"amount"`
	Description *string     `json:"description"`
	Category    *string     `json:"category"`
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	id := r.PathValue("id")

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: core.ErrInvalidAmount.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	record, err := s.expenses.UpdateExpense(r.Context(), userID, id, core.ExpenseUpdate{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.expenseCache.Delete(userID)
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	id := r.PathValue("id")

	if err := s.expenses.DeleteExpense(r.Context(), userID, id); err != nil {
		writeError(w, r, err)
		return
	}

	s.expenseCache.Delete(userID)
	w.WriteHeader(http.StatusNoContent)
}

type createBudgetRequest struct {
	UserID    string     `json:"userId"`
	MaxAmount core.Money `json:"maxAmount"`
	Month     int        `json:"month"`
	Year      int        `json:"year"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: core.ErrInvalidAmount.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	record, err := s.budgets.CreateBudget(r.Context(), services.CreateBudgetInput{
		UserID:    req.UserID,
		MaxAmount: req.MaxAmount,
		Month:     req.Month,
		Year:      req.Year,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.budgetCache.Delete(budgetCacheKey(req.UserID, req.Year, req.Month))
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	statuses, err := s.budgets.ListBudgets(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	year, month, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	key := budgetCacheKey(userID, year, month)
	if cached, found := s.budgetCache.Get(key); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	status, err := s.budgets.GetBudget(r.Context(), userID, month, year)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.budgetCache.Set(key, status)
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.Categories())
}

// parsePeriod reads the {year} and {month} path segments. Range checks
// stay in the services; this only rejects non-numeric input.
func parsePeriod(w http.ResponseWriter, r *http.Request) (year, month int, ok bool) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "year must be a number"})
		return 0, 0, false
	}
	month, err = strconv.Atoi(r.PathValue("month"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "month must be a number"})
		return 0, 0, false
	}
	return year, month, true
}
