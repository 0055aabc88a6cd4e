package settlement

import (
	"context"
	"errors"
	"net/http"
	"time"

	"splitpot/internal/api/handlers"
	"splitpot/internal/repositories/sqlconnect"
	"splitpot/internal/services"
	"splitpot/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

const queryTimeout = 5 * time.Second

var settlementsComputed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "splitpot_settlements_computed_total",
	Help: "Settlement calculations by outcome.",
}, []string{"source", "outcome"})

// FUNC TO SETTLE A GROUP FROM ITS STORED EXPENSES
func SettleGroupHandler(w http.ResponseWriter, r *http.Request) {
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

	groupID, err := handlers.PathID(r, "group_id")
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	exists, err := sqlconnect.GroupExists(ctx, db, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to retrieve group: %v", err)
		utils.WriteError(w, "failed to retrieve group", http.StatusInternalServerError)
		return
	}
	if !exists {
		utils.WriteError(w, "group not found", http.StatusNotFound)
		return
	}

	records, err := sqlconnect.GroupExpenseRecords(ctx, db, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to load expenses: %v", err)
		utils.WriteError(w, "failed to retrieve expenses", http.StatusInternalServerError)
		return
	}

	balances, err := services.CalculateSettlement(records)
	if err != nil {
		settlementsComputed.WithLabelValues("group", "invalid_record").Inc()
		utils.Logger.WithFields(logrus.Fields{
			"group_id": groupID,
			"error":    err,
		}).Error("stored expenses cannot be settled")
		utils.WriteError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	settlementsComputed.WithLabelValues("group", "ok").Inc()
	utils.Logger.WithFields(logrus.Fields{
		"group_id": groupID,
		"records":  len(records),
		"payers":   len(balances),
	}).Debug("group settled")

	utils.WriteJSON(w, balances)
}

// FUNC TO SETTLE AN AD HOC LIST OF RECORDS WITHOUT STORING THEM
func PreviewSettlementHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Records *[]struct {
			Payer  interface{} `json:"payer"`
			Amount interface{} `json:"amount"`
		} `json:"records"`
	}

	if err := handlers.DecodeJSON(r, &req); err != nil {
		if errors.Is(err, handlers.ErrEmptyBody) {
			utils.WriteError(w, "records required", http.StatusBadRequest)
			return
		}
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Records == nil {
		utils.WriteError(w, "records required", http.StatusBadRequest)
		return
	}

	records := make([]services.ExpenseRecord, 0, len(*req.Records))
	for _, rec := range *req.Records {
		records = append(records, services.ExpenseRecord{Payer: rec.Payer, Amount: rec.Amount})
	}

	balances, err := services.CalculateSettlement(records)
	if err != nil {
		settlementsComputed.WithLabelValues("preview", "invalid_record").Inc()
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	settlementsComputed.WithLabelValues("preview", "ok").Inc()
	utils.WriteJSON(w, balances)
}
