package expenses

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"splitpot/internal/api/handlers"
	"splitpot/internal/models"
	"splitpot/internal/repositories/sqlconnect"
	"splitpot/internal/services"
	"splitpot/pkg/utils"
)

const selectExpense = "SELECT id, group_id, payer, amount, description FROM expenses"

// FUNC TO CREATE AN EXPENSE
func CreateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type request struct {
		GroupID     interface{} `json:"group_id"`
		Payer       interface{} `json:"payer"`
		Amount      interface{} `json:"amount"`
		Description string      `json:"description"`
	}

	var req request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.GroupID == nil || req.Payer == nil || req.Amount == nil {
		utils.WriteError(w, "missing fields", http.StatusBadRequest)
		return
	}

	groupID, err := services.ParsePayerID(req.GroupID)
	if err != nil || groupID <= 0 {
		utils.WriteError(w, "group_id must be an integer", http.StatusBadRequest)
		return
	}
	payer, err := services.ParsePayerID(req.Payer)
	if err != nil || payer <= 0 {
		utils.WriteError(w, "payer must be an integer", http.StatusBadRequest)
		return
	}
	amount, err := handlers.ParseExpenseAmount(req.Amount)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	exists, err := sqlconnect.GroupExists(ctx, db, int(groupID))
	if err != nil {
		utils.Logger.Errorf("failed to retrieve group: %v", err)
		utils.WriteError(w, "failed to retrieve group", http.StatusInternalServerError)
		return
	}
	if !exists {
		utils.WriteError(w, "group not found", http.StatusNotFound)
		return
	}

	res, err := db.ExecContext(ctx, "INSERT INTO expenses (group_id, payer, amount, description) VALUES (?, ?, ?, ?)",
		groupID, payer, amount, strings.TrimSpace(req.Description))
	if err != nil {
		utils.Logger.Errorf("failed to create expense: %v", err)
		utils.WriteError(w, "failed to create expense", http.StatusInternalServerError)
		return
	}

	expenseID, err := res.LastInsertId()
	if err != nil {
		utils.Logger.Errorf("failed to read expense id: %v", err)
		utils.WriteError(w, "failed to create expense", http.StatusInternalServerError)
		return
	}

	utils.WriteJSONStatus(w, http.StatusCreated, map[string]interface{}{
		"status":     "created",
		"expense_id": expenseID,
	})
}

// FUNC TO LIST EXPENSES, OPTIONALLY FOR ONE GROUP
func ListExpensesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	groupID, filtered, err := handlers.QueryID(r, "group_id")
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	query := selectExpense
	args := []interface{}{}
	if filtered {
		query += " WHERE group_id = ?"
		args = append(args, groupID)
	}
	query += " ORDER BY id"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("failed to retrieve expenses: %v", err)
		utils.WriteError(w, "failed to retrieve expenses", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Payer, &e.Amount, &e.Description); err != nil {
			utils.Logger.Errorf("error reading expenses: %v", err)
			utils.WriteError(w, "error reading expenses", http.StatusInternalServerError)
			return
		}
		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing expenses read", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, expenses)
}

// ExpenseByIDHandler dispatches /expense/{id} by method.
func ExpenseByIDHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		GetExpenseHandler(w, r)
	case http.MethodPut:
		UpdateExpenseHandler(w, r)
	case http.MethodDelete:
		DeleteExpenseHandler(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// FUNC TO GET ONE EXPENSE
func GetExpenseHandler(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	expenseID, err := handlers.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var e models.Expense
	err = db.QueryRowContext(ctx, selectExpense+" WHERE id = ?", expenseID).
		Scan(&e.ID, &e.GroupID, &e.Payer, &e.Amount, &e.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to retrieve expense %d: %v", expenseID, err)
		utils.WriteError(w, "failed to retrieve expense", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, e)
}

// FUNC TO UPDATE AN EXPENSE
func UpdateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	expenseID, err := handlers.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	var fields map[string]json.RawMessage
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&fields); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	setClause, values, err := buildExpenseUpdate(fields)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var exists bool
	err = db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM expenses WHERE id = ?)", expenseID).Scan(&exists)
	if err != nil {
		utils.Logger.Errorf("failed to retrieve expense %d: %v", expenseID, err)
		utils.WriteError(w, "failed to retrieve expense", http.StatusInternalServerError)
		return
	}
	if !exists {
		utils.WriteError(w, "expense not found", http.StatusNotFound)
		return
	}

	values = append(values, expenseID)
	if _, err := db.ExecContext(ctx, "UPDATE expenses SET "+setClause+" WHERE id = ?", values...); err != nil {
		utils.Logger.Errorf("failed to update expense %d: %v", expenseID, err)
		utils.WriteError(w, "failed to update expense", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{"status": "updated"})
}

// buildExpenseUpdate validates the updatable fields present in a PUT body and
// returns the SET clause in a fixed column order. Other keys are ignored.
func buildExpenseUpdate(fields map[string]json.RawMessage) (string, []interface{}, error) {
	var (
		columns []string
		values  []interface{}
	)

	for _, key := range []string{"group_id", "payer", "amount", "description"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}

		var v interface{}
		decoder := json.NewDecoder(strings.NewReader(string(raw)))
		decoder.UseNumber()
		if err := decoder.Decode(&v); err != nil {
			return "", nil, errInvalidField(key)
		}

		switch key {
		case "group_id", "payer":
			id, err := services.ParsePayerID(v)
			if err != nil || id <= 0 {
				return "", nil, errInvalidField(key)
			}
			values = append(values, id)
		case "amount":
			amount, err := handlers.ParseExpenseAmount(v)
			if err != nil {
				return "", nil, err
			}
			values = append(values, amount)
		case "description":
			s, ok := v.(string)
			if !ok {
				return "", nil, errInvalidField(key)
			}
			values = append(values, strings.TrimSpace(s))
		}
		columns = append(columns, key+" = ?")
	}

	if len(columns) == 0 {
		return "", nil, errNoFields
	}
	return strings.Join(columns, ", "), values, nil
}

// FUNC TO DELETE AN EXPENSE
func DeleteExpenseHandler(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	expenseID, err := handlers.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		utils.Logger.Errorf("failed to delete expense %d: %v", expenseID, err)
		utils.WriteError(w, "error deleting expense", http.StatusInternalServerError)
		return
	}

	if n, _ := res.RowsAffected(); n == 0 {
		utils.WriteError(w, "expense not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{"status": "deleted"})
}
