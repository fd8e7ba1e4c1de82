// Package api provides the HTTP API for observing and driving the
// Terminal Network. GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/engine"
	"github.com/talgya/terminalnet/internal/resource"
)

// Server serves the Terminal Network's state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	Registry *colony.Registry
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	requestLimiter := NewRateLimiter(30, time.Minute)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/tiers", s.handleTiers)
	mux.HandleFunc("/api/v1/colonies", s.handleColonies)
	mux.HandleFunc("/api/v1/ledger", s.handleLedger)
	mux.HandleFunc("/api/v1/notifications", s.handleNotifications)

	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/request", s.adminOnly(RateLimitMiddleware(requestLimiter, s.handleRequestResource)))
	mux.HandleFunc("/api/v1/export", s.adminOnly(RateLimitMiddleware(requestLimiter, s.handleExportResource)))

	mux.HandleFunc("/ws/notifications", s.handleNotificationStream)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("terminal network API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set TERMINALNET_CORS_ORIGINS to a comma-separated allowlist;
// localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("TERMINALNET_CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST
// requests, tagging each admitted request with a correlation ID so
// its effects can be traced through the logs it triggers.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no TERMINALNET_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			reqID := uuid.NewString()
			w.Header().Set("X-Request-Id", reqID)
			slog.Info("admin request", "request_id", reqID, "path", r.URL.Path)
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"tick":                 s.Sim.LastTick,
		"running":              s.Eng.Running,
		"speed":                s.Eng.Speed,
		"colonies":             len(s.Registry.Names()),
		"transfers_this_tick":  s.Sim.Network().TransferCount(),
		"overloaded_terminals": s.Sim.Network().OverloadCount(),
	})
}

// handleTiers returns the current tier snapshot.
func (s *Server) handleTiers(w http.ResponseWriter, r *http.Request) {
	snapshot := s.Sim.Network().Persistent().TierSnapshot
	out := make(map[string]map[string][]string, len(snapshot))
	for tier, byColony := range snapshot {
		names := make(map[string][]string, len(byColony))
		for colonyName, resources := range byColony {
			strs := make([]string, 0, len(resources))
			for _, res := range resources {
				strs = append(strs, res.String())
			}
			names[colonyName] = strs
		}
		out[tier.String()] = names
	}
	writeJSON(w, out)
}

func (s *Server) handleColonies(w http.ResponseWriter, r *http.Request) {
	type colonyView struct {
		Name        string  `json:"name"`
		Level       int     `json:"level"`
		RoomName    string  `json:"room_name"`
		AvgCooldown float64 `json:"avg_cooldown"`
		Overload    float64 `json:"overload"`
	}

	persistent := s.Sim.Network().Persistent()
	var out []colonyView
	for _, name := range s.Registry.Names() {
		c, ok := s.Registry.Lookup(name)
		if !ok {
			continue
		}
		out = append(out, colonyView{
			Name:        c.Name,
			Level:       c.Level,
			RoomName:    c.RoomName,
			AvgCooldown: persistent.AvgCooldown[c.Name],
			Overload:    persistent.Overload[c.Name],
		})
	}
	writeJSON(w, out)
}

// handleLedger returns cumulative transfer tallies, optionally
// filtered by ?resource=name.
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("resource")
	transfers := s.Sim.Network().Persistent().Transfers

	type row struct {
		Resource    string `json:"resource"`
		Origin      string `json:"origin"`
		Destination string `json:"destination"`
		Units       uint64 `json:"units"`
	}
	var rows []row
	for res, byOrigin := range transfers {
		if filter != "" && res.String() != filter {
			continue
		}
		for origin, byDest := range byOrigin {
			for dest, units := range byDest {
				rows = append(rows, row{Resource: res.String(), Origin: origin, Destination: dest, Units: units})
			}
		}
	}
	writeJSON(w, rows)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Network().Notifications())
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var body struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		s.Eng.Speed = body.Speed
	}
	writeJSON(w, map[string]any{"speed": s.Eng.Speed})
}

// handleRequestResource implements the requestResource external
// override over HTTP.
func (s *Server) handleRequestResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Colony    string `json:"colony"`
		Resource  string `json:"resource"`
		Amount    uint64 `json:"amount"`
		Tolerance uint64 `json:"tolerance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	c, ok := s.Registry.Lookup(body.Colony)
	if !ok {
		http.Error(w, "unknown colony", http.StatusNotFound)
		return
	}
	res, ok := resource.NameIndex()[body.Resource]
	if !ok {
		http.Error(w, "unknown resource", http.StatusBadRequest)
		return
	}

	s.Sim.Network().RequestResource(c, res, body.Amount, body.Tolerance)
	w.WriteHeader(http.StatusAccepted)
}

// handleExportResource implements the exportResource external override
// over HTTP.
func (s *Server) handleExportResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Colony   string `json:"colony"`
		Resource string `json:"resource"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	c, ok := s.Registry.Lookup(body.Colony)
	if !ok {
		http.Error(w, "unknown colony", http.StatusNotFound)
		return
	}
	res, ok := resource.NameIndex()[body.Resource]
	if !ok {
		http.Error(w, "unknown resource", http.StatusBadRequest)
		return
	}

	s.Sim.Network().ExportResource(c, res, nil)
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
