package web

import "net/http"

// registerRoutes maps every path to its handler. Authenticated pages go
// through requireAuth.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", handleIndex)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/healthz", handleHealthz)

	mux.HandleFunc("/dashboard", requireAuth(handleDashboard))

	mux.HandleFunc("/manage", requireAuth(handleManage))
	mux.HandleFunc("/manage/reservations", requireAuth(handleCreateReservation))
	mux.HandleFunc("/manage/reservations/update", requireAuth(handleUpdateReservation))
	mux.HandleFunc("/manage/cancel", requireAuth(handleCancelEdit))

	mux.HandleFunc("/membership", requireAuth(handleMembership))

	mux.HandleFunc("/debug/perf", requireAuth(handlePerf))
}
