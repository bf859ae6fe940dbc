package httpserver

import "net/http"

// Routes groups handlers.
type Routes struct {
	Cities            http.HandlerFunc
	Categories        http.HandlerFunc
	FlightRoutes      http.HandlerFunc
	SessionsList      http.HandlerFunc
	SessionCreate     http.HandlerFunc
	SessionGet        http.HandlerFunc
	SessionStart      http.HandlerFunc
	SessionSeat       http.HandlerFunc
	SessionComplete   http.HandlerFunc
	SessionCancel     http.HandlerFunc
	SessionEvents     http.HandlerFunc
	Stats             http.HandlerFunc
	StatsCategories   http.HandlerFunc
	Achievements      http.HandlerFunc
	AchievementsUser  http.HandlerFunc
	AchievementsCheck http.HandlerFunc
	Health            http.HandlerFunc
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()

	register(mux, "GET /cities", routes.Cities)
	register(mux, "GET /categories", routes.Categories)
	register(mux, "GET /routes", routes.FlightRoutes)
	register(mux, "GET /sessions", routes.SessionsList)
	register(mux, "POST /sessions", routes.SessionCreate)
	register(mux, "GET /sessions/{id}", routes.SessionGet)
	register(mux, "POST /sessions/{id}/start", routes.SessionStart)
	register(mux, "POST /sessions/{id}/seat", routes.SessionSeat)
	register(mux, "POST /sessions/{id}/complete", routes.SessionComplete)
	register(mux, "POST /sessions/{id}/cancel", routes.SessionCancel)
	register(mux, "GET /sessions/{id}/events", routes.SessionEvents)
	register(mux, "GET /stats", routes.Stats)
	register(mux, "GET /stats/categories", routes.StatsCategories)
	register(mux, "GET /achievements", routes.Achievements)
	register(mux, "GET /achievements/user", routes.AchievementsUser)
	register(mux, "POST /achievements/check", routes.AchievementsCheck)
	register(mux, "GET /health", routes.Health)

	return mux
}

func register(mux *http.ServeMux, pattern string, handler http.HandlerFunc) {
	if handler != nil {
		mux.Handle(pattern, handler)
	}
}
