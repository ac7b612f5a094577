package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"kvload/internal/events"
	"kvload/internal/logger"
	"kvload/internal/scenario"
	"kvload/internal/stats"

	"golang.org/x/net/websocket"
)

//go:embed static/*
var staticFiles embed.FS

// Server はAPIサーバー
type Server struct {
	addr     string
	engine   *scenario.Engine
	config   scenario.Config
	eventBus *events.Bus

	mu        sync.RWMutex
	running   bool
	wsClients map[*websocket.Conn]bool

	server *http.Server
}

// NewServer は新しいAPIサーバーを作成する
func NewServer(addr string) *Server {
	return &Server{
		addr:      addr,
		eventBus:  events.NewBus(),
		wsClients: make(map[*websocket.Conn]bool),
	}
}

// Start はサーバーを開始する
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	// API routes
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/metrics", s.handleMetrics)
	mux.HandleFunc("/api/presets", s.handlePresets)
	mux.HandleFunc("/api/run/start", s.handleRunStart)
	mux.HandleFunc("/api/run/stop", s.handleRunStop)

	// WebSocket
	mux.Handle("/ws", websocket.Handler(s.handleWebSocket))

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to get static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	// バックグラウンドでメトリクスとイベントを配信
	go s.broadcastLoop(ctx)
	go s.forwardEvents(ctx)

	logger.Info("", "API Server starting on http://%s", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// StatusResponse はステータスレスポンス
type StatusResponse struct {
	Running      bool   `json:"running"`
	ScenarioName string `json:"scenario_name,omitempty"`
	Users        int    `json:"users,omitempty"`
	Target       string `json:"target,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeJSON(w, s.status())
}

func (s *Server) status() StatusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := StatusResponse{
		Running: s.running,
	}

	if s.config.Name != "" {
		resp.ScenarioName = s.config.Name
		resp.Users = s.config.Users
	}

	return resp
}

// MetricsResponse はメトリクスレスポンス
type MetricsResponse struct {
	TotalRequests   uint64                        `json:"total_requests"`
	SuccessRequests uint64                        `json:"success_requests"`
	FailedRequests  uint64                        `json:"failed_requests"`
	RPS             float64                       `json:"rps"`
	OverallRPS      float64                       `json:"overall_rps"`
	AvgLatencyMs    float64                       `json:"avg_latency_ms"`
	P99LatencyMs    float64                       `json:"p99_latency_ms"`
	ErrorRate       float64                       `json:"error_rate"`
	PerName         map[string]stats.NameSnapshot `json:"per_name,omitempty"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeJSON(w, s.metrics())
}

func (s *Server) metrics() MetricsResponse {
	s.mu.RLock()
	engine := s.engine
	s.mu.RUnlock()

	resp := MetricsResponse{}

	if engine == nil {
		return resp
	}
	snap := engine.Metrics()
	if snap == nil {
		return resp
	}

	resp.TotalRequests = snap.TotalRequests
	resp.SuccessRequests = snap.SuccessRequests
	resp.FailedRequests = snap.FailedRequests
	resp.RPS = snap.RPS
	resp.OverallRPS = snap.OverallRPS
	resp.AvgLatencyMs = float64(snap.AverageLatency) / float64(time.Millisecond)
	resp.P99LatencyMs = float64(snap.P99Latency) / float64(time.Millisecond)
	resp.ErrorRate = snap.ErrorRate
	resp.PerName = snap.PerName

	return resp
}

// RunRequest は実行開始リクエスト
type RunRequest struct {
	Preset    string  `json:"preset"`
	Duration  string  `json:"duration,omitempty"`
	Users     int     `json:"users,omitempty"`
	Host      string  `json:"host,omitempty"`
	Port      int     `json:"port,omitempty"`
	SpawnRate float64 `json:"spawn_rate,omitempty"`
}

func (s *Server) handleRunStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// プリセット取得
	config, ok := scenario.GetPreset(req.Preset)
	if !ok {
		config = scenario.QuickScenario()
	}

	// オーバーライド
	if req.Duration != "" {
		d, err := time.ParseDuration(req.Duration)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid duration: %s", req.Duration), http.StatusBadRequest)
			return
		}
		config.Duration = d
	}
	if req.Users > 0 {
		config.Users = req.Users
	}
	if req.Host != "" {
		config.Host = req.Host
	}
	if req.Port > 0 {
		config.Port = req.Port
	}
	if req.SpawnRate > 0 {
		config.SpawnRate = req.SpawnRate
	}

	if err := config.Validate(); err != nil {
		http.Error(w, fmt.Sprintf("Invalid run config: %v", err), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		http.Error(w, "Run already in progress", http.StatusConflict)
		return
	}

	s.config = config
	s.engine = scenario.New(config)
	s.engine.SetEventBus(s.eventBus)
	s.running = true
	engine := s.engine
	s.mu.Unlock()

	// バックグラウンドで実行
	go func() {
		result, err := engine.Run(context.Background())

		s.mu.Lock()
		s.running = false
		s.mu.Unlock()

		if err != nil {
			logger.Error("", "Run failed: %v", err)
			return
		}

		logger.Info("", "Run completed: %d requests", result.TotalRequests)
		s.broadcast(map[string]interface{}{
			"type":   "run_complete",
			"result": result,
		})
	}()

	s.writeJSON(w, map[string]string{"status": "started", "scenario": config.Name})
}

func (s *Server) handleRunStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		http.Error(w, "No run in progress", http.StatusBadRequest)
		return
	}
	engine := s.engine
	s.mu.Unlock()

	engine.Stop()

	s.writeJSON(w, map[string]string{"status": "stop requested"})
}

// PresetInfo はプリセット情報
type PresetInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Users       int    `json:"users"`
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var presets []PresetInfo
	for _, name := range scenario.ListPresets() {
		cfg, _ := scenario.GetPreset(name)
		presets = append(presets, PresetInfo{
			Name:        cfg.Name,
			Description: cfg.Description,
			Duration:    cfg.Duration.String(),
			Users:       cfg.Users,
		})
	}

	s.writeJSON(w, presets)
}

// WebSocket handling
func (s *Server) handleWebSocket(ws *websocket.Conn) {
	s.mu.Lock()
	s.wsClients[ws] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.wsClients, ws)
		s.mu.Unlock()
		_ = ws.Close()
	}()

	// Keep connection alive
	for {
		var msg string
		if err := websocket.Message.Receive(ws, &msg); err != nil {
			break
		}
	}
}

func (s *Server) broadcast(data interface{}) {
	s.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(s.wsClients))
	for ws := range s.wsClients {
		clients = append(clients, ws)
	}
	s.mu.RUnlock()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}

	for _, ws := range clients {
		_ = websocket.Message.Send(ws, string(jsonData))
	}
}

// broadcastLoop は実行中のメトリクスを1秒ごとに配信する
func (s *Server) broadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.RLock()
			running := s.running
			s.mu.RUnlock()

			if !running {
				continue
			}

			s.broadcast(map[string]interface{}{
				"type":    "metrics",
				"status":  s.status(),
				"metrics": s.metrics(),
			})
		}
	}
}

// forwardEvents はイベントバスの通知をWebSocketに転送する
func (s *Server) forwardEvents(ctx context.Context) {
	ch := s.eventBus.Subscribe()
	defer s.eventBus.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			s.broadcast(map[string]interface{}{
				"type":  "event",
				"event": ev,
			})
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("", "Failed to encode JSON: %v", err)
	}
}
