package routers

import (
	"net/http"

	"splitpot/internal/api/handlers/auth"
)

func usersRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/user/register", auth.RegisterUsersHandler)
	mux.HandleFunc("/user/login", auth.LoginHandler)
	mux.HandleFunc("/user/logout", auth.LogoutHandler)

	return mux
}
