package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/oprema/internal/club"
	"github.com/erazemk/oprema/internal/model"
)

// Services are the club services behind the API.
type Services struct {
	Roster    *club.Roster
	Inventory *club.Inventory
	Schedule  *club.Schedule
}

// NewRouter creates the API router with all endpoints registered. Operator
// accounts and tokens always live in db; club records go through svc.
func NewRouter(db *sql.DB, jwtSecret string, svc Services) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	membersHandler := &MembersHandler{Roster: svc.Roster}
	itemsHandler := &ItemsHandler{Inventory: svc.Inventory}
	batchesHandler := &BatchesHandler{Inventory: svc.Inventory}
	matchesHandler := &MatchesHandler{Schedule: svc.Schedule}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Members: read (all roles), write (manager+).
	mux.Handle("GET /api/members", authMW(http.HandlerFunc(membersHandler.List)))
	mux.Handle("POST /api/members", authMW(requireManager(http.HandlerFunc(membersHandler.Create))))
	mux.Handle("GET /api/members/{type}/{id}", authMW(http.HandlerFunc(membersHandler.Get)))
	mux.Handle("PUT /api/members/{type}/{id}", authMW(requireManager(http.HandlerFunc(membersHandler.Update))))
	mux.Handle("DELETE /api/members/{type}/{id}", authMW(requireManager(http.HandlerFunc(membersHandler.Delete))))

	// Items: read (all roles), write (manager+).
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(requireManager(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(requireManager(http.HandlerFunc(itemsHandler.Update))))
	mux.Handle("DELETE /api/items/{id}", authMW(requireManager(http.HandlerFunc(itemsHandler.Delete))))

	// Distributions (all roles).
	mux.Handle("POST /api/items/{id}/distributions", authMW(http.HandlerFunc(itemsHandler.AddDistribution)))
	mux.Handle("DELETE /api/items/{id}/distributions/{index}", authMW(http.HandlerFunc(itemsHandler.RemoveDistribution)))

	// Batches: read (all roles), write (manager+).
	mux.Handle("POST /api/batches", authMW(requireManager(http.HandlerFunc(batchesHandler.Create))))
	mux.Handle("GET /api/batches/{id}", authMW(http.HandlerFunc(batchesHandler.Get)))
	mux.Handle("DELETE /api/batches/{id}", authMW(requireManager(http.HandlerFunc(batchesHandler.Delete))))

	// Matches: read (all roles), write (manager+).
	mux.Handle("GET /api/matches", authMW(http.HandlerFunc(matchesHandler.List)))
	mux.Handle("POST /api/matches", authMW(requireManager(http.HandlerFunc(matchesHandler.Create))))
	mux.Handle("POST /api/matches/conflicts", authMW(http.HandlerFunc(matchesHandler.Conflicts)))
	mux.Handle("GET /api/matches/{id}", authMW(http.HandlerFunc(matchesHandler.Get)))
	mux.Handle("PUT /api/matches/{id}", authMW(requireManager(http.HandlerFunc(matchesHandler.Update))))
	mux.Handle("DELETE /api/matches/{id}", authMW(requireManager(http.HandlerFunc(matchesHandler.Delete))))

	return mux
}
