package routers

import (
	"net/http"

	"splitpot/internal/api/handlers/expenses"
)

func expensesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/expense", expenses.CreateExpenseHandler)

	mux.HandleFunc("/expenses", expenses.ListExpensesHandler)

	mux.HandleFunc("/expense/{id}", expenses.ExpenseByIDHandler)

	return mux
}
