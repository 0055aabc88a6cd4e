package routers

import (
	"net/http"

	"splitpot/internal/api/handlers/settlement"
)

func settlementRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/settle/preview", settlement.PreviewSettlementHandler)

	mux.HandleFunc("/settle/{group_id}", settlement.SettleGroupHandler)

	return mux
}
