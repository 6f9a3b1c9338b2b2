package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-pulse/internal/store"
	"github.com/rxtech-lab/argo-pulse/internal/types"
)

const (
	wsWriteTimeout   = 5 * time.Second
	wsSubscribeQueue = 64
)

// handleWebSocket sends the current state of every asset, then forwards store events
// until the client disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("Websocket upgrade failed", zap.Error(err))

		return
	}
	defer conn.Close()

	events, cancel := s.store.Subscribe(wsSubscribeQueue)
	defer cancel()

	if err := s.writeInitialState(conn); err != nil {
		return
	}

	// the read side only detects the client going away
	gone := make(chan struct{})

	go func() {
		defer close(gone)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(wsWriteTimeout))

			return
		case ev, ok := <-events:
			if !ok {
				return
			}

			if err := s.writeEvent(conn, ev); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeInitialState(conn *websocket.Conn) error {
	//nolint:exhaustruct // only mode fields are relevant
	if err := s.writeEvent(conn, store.Event{Type: store.EventMode, Mode: s.store.Mode(), Loading: s.store.IsLoading()}); err != nil {
		return err
	}

	//nolint:exhaustruct // only selection fields are relevant
	if err := s.writeEvent(conn, store.Event{Type: store.EventSelection, Selected: s.store.Selected(), Loading: s.store.IsLoading()}); err != nil {
		return err
	}

	for _, asset := range types.TrackedAssets() {
		snapshot, err := s.store.Get(asset)
		if err != nil {
			return err
		}

		//nolint:exhaustruct // only snapshot fields are relevant
		if err := s.writeEvent(conn, store.Event{Type: store.EventSnapshot, Asset: asset, Snapshot: &snapshot, Loading: s.store.IsLoading()}); err != nil {
			return err
		}
	}

	return nil
}

func (s *Server) writeEvent(conn *websocket.Conn, ev store.Event) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}

	return conn.WriteJSON(ev)
}
