package routers

import (
	"net/http"

	"splitpot/pkg/utils"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func MainRouter() *http.ServeMux {

	mux := http.NewServeMux()

	mux.HandleFunc("/{$}", statusHandler)
	mux.Handle("/metrics", promhttp.Handler())

	uRouter := usersRouter()
	mux.Handle("/user/", uRouter)

	gRouter := groupsRouter()
	mux.Handle("/group", gRouter)
	mux.Handle("/group/", gRouter)
	mux.Handle("/groups", gRouter)

	eRouter := expensesRouter()
	mux.Handle("/expense", eRouter)
	mux.Handle("/expense/", eRouter)
	mux.Handle("/expenses", eRouter)

	sRouter := settlementRouter()
	mux.Handle("/settle/", sRouter)

	return mux
}

func statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	utils.WriteJSON(w, map[string]string{"status": "running"})
}
