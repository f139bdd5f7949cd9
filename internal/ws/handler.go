package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/kevinmathew47/typing-tug-backend/internal/engine"
	"github.com/kevinmathew47/typing-tug-backend/internal/hub"
	"github.com/kevinmathew47/typing-tug-backend/internal/round"
	"github.com/kevinmathew47/typing-tug-backend/internal/types"
	"go.uber.org/zap"
)

// readTimeout is generous: a player staring at the sentence sends nothing,
// and the opponent ticker keeps the connection busy only while a round runs.
const readTimeout = 5 * time.Minute

func Handler(h *hub.Hub, log *zap.Logger, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *round.Round, 1)
		h.Inbox() <- hub.GetRound{Code: code, Reply: reply}
		rd := <-reply
		if rd == nil {
			http.Error(w, "round not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan round.Snapshot, 8)
		clientID := randID(6)

		rd.Inbox() <- round.Join{ClientID: clientID, Outbox: out}
		defer func() { rd.Inbox() <- round.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := types.ServerMessage{
					Type:           "StateSnapshot",
					Version:        snap.Version,
					State:          &snap.State,
					WordsPerMinute: snap.WordsPerMinute,
					TypingAccuracy: snap.TypingAccuracy,
				}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (round.Leave in defer):
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			cmd, ok := toEngineCommand(cm, time.Now())
			if !ok {
				writeError(r.Context(), conn, "unknown type")
				continue
			}

			rd.Inbox() <- round.FromClient{Cmd: cmd}
		}
	}
}

func toEngineCommand(m types.ClientMessage, at time.Time) (engine.Command, bool) {
	switch m.Type {
	case "Start":
		return engine.Command{Type: engine.CmdStartRound, At: at}, true
	case "Input":
		return engine.Command{Type: engine.CmdTypeInput, Input: m.Text, At: at}, true
	case "Stop":
		return engine.Command{Type: engine.CmdStopRound, At: at}, true
	default:
		return engine.Command{}, false
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, msg string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: "Error", Error: msg})
	_ = conn.Write(ctx, websocket.MessageText, payload)
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
