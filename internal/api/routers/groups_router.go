package routers

import (
	"net/http"

	"splitpot/internal/api/handlers/groups"
)

func groupsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/group", groups.CreateGroupHandler)

	mux.HandleFunc("/groups", groups.ListGroupsHandler)

	mux.HandleFunc("/group/{id}/add_user", groups.AddUserToGroupHandler)

	mux.HandleFunc("/group/{id}/members", groups.GroupMembersHandler)

	return mux
}
