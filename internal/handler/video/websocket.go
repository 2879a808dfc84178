package video

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	analysis "github.com/crackgpt/backend/internal/analysis/posture"
	posturemodel "github.com/crackgpt/backend/internal/model/posture"
	interviewService "github.com/crackgpt/backend/internal/service/interview"
)

// WebSocketHandler receives webcam landmark frames during an interview
// and accumulates posture samples on the session.
type WebSocketHandler struct {
	svc      *interviewService.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the video capture handler.
func NewWebSocketHandler(svc *interviewService.Service) *WebSocketHandler {
	return &WebSocketHandler{
		svc: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes registers the video capture WebSocket route.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/ws/video/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// FrameMessage carries the landmarks extracted from one webcam frame.
// Any absent landmark group disables the metrics that need it.
type FrameMessage struct {
	Width           float64            `json:"width"`
	Height          float64            `json:"height"`
	LeftShoulder    *analysis.Landmark `json:"leftShoulder,omitempty"`
	RightShoulder   *analysis.Landmark `json:"rightShoulder,omitempty"`
	Nose            *analysis.Landmark `json:"nose,omitempty"`
	LeftEye         *analysis.Landmark `json:"leftEye,omitempty"`
	RightEye        *analysis.Landmark `json:"rightEye,omitempty"`
	HairEdgeDensity *float64           `json:"hairEdgeDensity,omitempty"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	session, err := h.svc.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[video] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[video] new connection for session: %s", sessionID)

	ctx := r.Context()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(ctx, conn)

	h.sendInfo(conn, sessionID, map[string]any{
		"type": "connected",
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[video] read error: %v", err)
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			if msg.SessionID != "" && msg.SessionID != sessionID {
				h.sendError(conn, "session mismatch")
				continue
			}

			h.handleMessage(conn, session, &msg)
		}
	}
}

func (h *WebSocketHandler) handleMessage(conn *websocket.Conn, session *interviewService.Session, msg *inboundMessage) {
	switch msg.Type {
	case "frame":
		h.handleFrame(conn, session, msg.Data)
	case "summary":
		h.handleSummary(conn, session)
	default:
		h.sendError(conn, "unsupported message type: "+msg.Type)
	}
}

func (h *WebSocketHandler) handleFrame(conn *websocket.Conn, session *interviewService.Session, raw json.RawMessage) {
	var frame FrameMessage
	if err := json.Unmarshal(raw, &frame); err != nil {
		h.sendError(conn, "invalid frame payload")
		return
	}

	sample := analysis.Analyze(analysis.Frame{
		Width:           frame.Width,
		Height:          frame.Height,
		LeftShoulder:    frame.LeftShoulder,
		RightShoulder:   frame.RightShoulder,
		Nose:            frame.Nose,
		LeftEye:         frame.LeftEye,
		RightEye:        frame.RightEye,
		HairEdgeDensity: frame.HairEdgeDensity,
	})
	session.Capture().Record(sample)

	h.sendInfo(conn, session.ID, map[string]any{
		"type":         "sample",
		"postureScore": sample.PostureScore,
		"headTiltDeg":  sample.HeadTiltDeg,
		"hairScore":    sample.HairScore,
		"sampleCount":  session.Capture().Len(),
	})
}

func (h *WebSocketHandler) handleSummary(conn *websocket.Conn, session *interviewService.Session) {
	samples := session.PostureSamples()
	data := map[string]any{
		"type":        "summary",
		"sampleCount": len(samples),
	}
	if len(samples) > 0 {
		data["avgPostureScore"] = posturemodel.MeanPostureScore(samples)
		data["avgHairScore"] = posturemodel.MeanHairScore(samples)
		data["avgAbsTiltDeg"] = posturemodel.MeanAbsTilt(samples)
	}
	h.sendInfo(conn, session.ID, data)
}

func (h *WebSocketHandler) sendInfo(conn *websocket.Conn, sessionID string, data map[string]any) {
	msg := outgoingMessage{
		Type:      "result",
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[video] write info failed: %v", err)
	}
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, message string) {
	msg := outgoingMessage{
		Type:      "error",
		Data:      map[string]string{"message": message},
		Timestamp: time.Now().Unix(),
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[video] write error failed: %v", err)
	}
}

func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
