package groups

import (
	"context"
	"net/http"
	"strings"
	"time"

	"splitpot/internal/api/handlers"
	"splitpot/internal/models"
	"splitpot/internal/repositories/sqlconnect"
	"splitpot/pkg/utils"
)

// FUNC TO CREATE GROUP
func CreateGroupHandler(w http.ResponseWriter, r *http.Request) {
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
		Name  string `json:"name"`
		Owner int    `json:"owner"`
	}

	var req request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Owner <= 0 {
		utils.WriteError(w, "name and owner required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "INSERT INTO `groups` (name, owner) VALUES (?, ?)", req.Name, req.Owner)
	if err != nil {
		utils.Logger.Errorf("failed to create group: %v", err)
		utils.WriteError(w, "failed to create group", http.StatusInternalServerError)
		return
	}

	groupID, err := res.LastInsertId()
	if err != nil {
		utils.Logger.Errorf("failed to read group id: %v", err)
		utils.WriteError(w, "failed to create group", http.StatusInternalServerError)
		return
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO group_users (group_id, user_id) VALUES (?, ?)", groupID, req.Owner); err != nil {
		utils.Logger.Errorf("failed to add owner to group: %v", err)
		utils.WriteError(w, "failed to create group", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "failed to commit transaction", http.StatusInternalServerError)
		return
	}

	utils.WriteJSONStatus(w, http.StatusCreated, map[string]interface{}{
		"status":   "group created",
		"group_id": groupID,
	})
}

// FUNC TO LIST GROUPS, OPTIONALLY FILTERED BY OWNER
func ListGroupsHandler(w http.ResponseWriter, r *http.Request) {
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

	owner, filtered, err := handlers.QueryID(r, "owner")
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	query := "SELECT id, name, owner FROM `groups`"
	args := []interface{}{}
	if filtered {
		query += " WHERE owner = ?"
		args = append(args, owner)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("failed to list groups: %v", err)
		utils.WriteError(w, "failed to retrieve groups", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Owner); err != nil {
			utils.Logger.Errorf("error reading groups: %v", err)
			utils.WriteError(w, "error reading groups", http.StatusInternalServerError)
			return
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing groups read", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, groups)
}

// FUNC TO ADD A USER TO A GROUP
func AddUserToGroupHandler(w http.ResponseWriter, r *http.Request) {
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

	groupID, err := handlers.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	type request struct {
		UserID int `json:"user_id"`
	}

	var req request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID <= 0 {
		utils.WriteError(w, "user_id required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
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

	var isMember bool
	err = db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM group_users WHERE group_id = ? AND user_id = ?)", groupID, req.UserID).Scan(&isMember)
	if err != nil {
		utils.WriteError(w, "failed to verify group membership", http.StatusInternalServerError)
		return
	}
	if isMember {
		utils.WriteJSON(w, map[string]interface{}{"status": "user already in group"})
		return
	}

	_, err = db.ExecContext(ctx, "INSERT INTO group_users (group_id, user_id) VALUES (?, ?)", groupID, req.UserID)
	if err != nil {
		if sqlconnect.IsDuplicateEntry(err) {
			utils.WriteJSON(w, map[string]interface{}{"status": "user already in group"})
			return
		}
		utils.Logger.Errorf("failed to add user %d to group %d: %v", req.UserID, groupID, err)
		utils.WriteError(w, "failed to add user to group", http.StatusInternalServerError)
		return
	}

	utils.WriteJSONStatus(w, http.StatusCreated, map[string]interface{}{"status": "user added to group"})
}

// FUNC TO LIST GROUP MEMBERS
func GroupMembersHandler(w http.ResponseWriter, r *http.Request) {
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

	groupID, err := handlers.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT u.id, u.email
		FROM users u
		JOIN group_users gu ON u.id = gu.user_id
		WHERE gu.group_id = ?
		ORDER BY u.id
	`, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch group members: %v", err)
		utils.WriteError(w, "failed to fetch group members", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	members := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email); err != nil {
			utils.Logger.Errorf("error reading members: %v", err)
			utils.WriteError(w, "error reading members", http.StatusInternalServerError)
			return
		}
		members = append(members, u)
	}

	if err := rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing members read", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, members)
}
