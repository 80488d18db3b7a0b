package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "riskadvisor",
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleSystemStatus reports process, host, and store health.
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	cpuPercent := 0.0
	if percents, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(percents) > 0 {
		cpuPercent = percents[0]
	}
	memPercent := 0.0
	if vm, err := mem.VirtualMemory(); err == nil {
		memPercent = vm.UsedPercent
	}

	dbStatus := "ok"
	if err := s.db.HealthCheck(r.Context()); err != nil {
		dbStatus = "error"
		s.log.Error().Err(err).Msg("Database health check failed")
	}
	dbSize := s.db.SizeBytes()

	strategies, packages := s.storeCounts(r)

	response := map[string]interface{}{
		"status": "running",
		"host": map[string]interface{}{
			"cpu_percent":    cpuPercent,
			"memory_percent": memPercent,
		},
		"process": map[string]interface{}{
			"alloc_mb":   m.Alloc / 1024 / 1024,
			"sys_mb":     m.Sys / 1024 / 1024,
			"num_gc":     m.NumGC,
			"goroutines": runtime.NumGoroutine(),
		},
		"database": map[string]interface{}{
			"status":     dbStatus,
			"size_bytes": dbSize,
			"strategies": strategies,
			"packages":   packages,
		},
		"event_subscribers": s.hub.Subscribers(),
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) storeCounts(r *http.Request) (strategies, packages int) {
	conn := s.db.Conn()
	if err := conn.QueryRowContext(r.Context(), `SELECT COUNT(*) FROM strategies`).Scan(&strategies); err != nil {
		s.log.Warn().Err(err).Msg("Failed to count strategies")
	}
	if err := conn.QueryRowContext(r.Context(), `SELECT COUNT(*) FROM decision_packages`).Scan(&packages); err != nil {
		s.log.Warn().Err(err).Msg("Failed to count decision packages")
	}
	return strategies, packages
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
