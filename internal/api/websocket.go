package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/clive/internal/store"
)

// serveWS runs a conversation over one connection. Every text frame is
// an utterance and every reply is one JSON frame. Errors are sent as
// {"error": "..."} frames; a session deleted mid-conversation closes the socket.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	// Resolve before upgrading so a bad id is a plain 404.
	if _, err := s.mgr.Profile(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer ws.Close(websocket.StatusNormalClosure, "session ended")
	s.logger.Info("websocket connected", zap.String("session", id))

	ctx := r.Context()
	for {
		typ, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				s.logger.Warn("websocket read error", zap.String("session", id), zap.Error(err))
			}
			return
		}
		if typ != websocket.MessageText {
			_ = wsjson.Write(ctx, ws, map[string]string{"error": "text frames only"})
			continue
		}

		resp, err := s.mgr.Turn(ctx, id, string(data))
		switch {
		case errors.Is(err, store.ErrNotFound):
			ws.Close(websocket.StatusPolicyViolation, "session deleted")
			return
		case err != nil:
			s.logger.Warn("websocket turn failed", zap.String("session", id), zap.Error(err))
			if werr := wsjson.Write(ctx, ws, map[string]string{"error": err.Error()}); werr != nil {
				return
			}
			continue
		}
		if err := wsjson.Write(ctx, ws, newTurnResponse(id, resp)); err != nil {
			s.logger.Debug("websocket write failed", zap.Error(err))
			return
		}
	}
}
