package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"galaxy-server/internal/coords"
	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/shared/config"
	"galaxy-server/internal/shared/metrics"

	"github.com/gorilla/websocket"
)

const (
	streamBatchSize  = 5000
	streamWriteWait  = 10 * time.Second
	streamPingPeriod = 30 * time.Second
)

// StreamHandler pushes a galaxy's point cloud over a WebSocket in
// batches, so rendering clients can start drawing before the full
// cloud arrives.
type StreamHandler struct {
	service  *galaxy.Service
	upgrader websocket.Upgrader
}

func NewStreamHandler(service *galaxy.Service) *StreamHandler {
	return &StreamHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 64 * 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == config.GlobalConfig.Frontend.URL
			},
		},
	}
}

type streamBatch struct {
	Sequence int           `json:"sequence"`
	Total    int           `json:"total"`
	Points   []coords.Vec3 `json:"points"`
	Done     bool          `json:"done"`
}

func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "stream_point_cloud", "remote_addr", r.RemoteAddr)

	id, err := galaxyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	count, err := parseInt(r, "count")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	points, err := h.service.PointCloud(r.Context(), id, count)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	metrics.StreamConnectionsActive.Inc()
	defer metrics.StreamConnectionsActive.Dec()

	logger.Info("Point cloud stream started", "galaxy_id", id, "points", len(points))

	// Drain client messages so control frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	sequence := 0
	for offset := 0; offset < len(points); offset += streamBatchSize {
		end := offset + streamBatchSize
		if end > len(points) {
			end = len(points)
		}

		batch := streamBatch{
			Sequence: sequence,
			Total:    len(points),
			Points:   points[offset:end],
			Done:     end == len(points),
		}

		conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		if err := conn.WriteJSON(batch); err != nil {
			logger.Debug("Stream client disconnected", "error", err, "sequence", sequence)
			return
		}
		sequence++

		select {
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		default:
		}
	}

	conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream complete"))

	logger.Info("Point cloud stream completed", "galaxy_id", id, "batches", sequence)
}
