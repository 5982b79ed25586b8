package handler

import (
	"net/http"

	"github.com/msomdec/employwise/internal/service"
)

// HandleRoot sends the browser to the user list when the session holds a
// token and to the login screen otherwise.
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	if service.IsAuthenticated(SessionFromContext(r.Context())) {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
