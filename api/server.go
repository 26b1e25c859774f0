package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/matt-g-everett/keyframer/stream"
)

// FrameSource is the playback the Api exposes.
type FrameSource interface {
	Latest() *stream.Frame
	Trigger(token string)
}

// Api serves the latest frame, accepts triggers and streams frames to
// websocket clients.
type Api struct {
	source   FrameSource
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

// NewApi creates an instance of an Api.
func NewApi(source FrameSource) *Api {
	a := new(Api)
	a.source = source
	a.clients = make(map[chan []byte]struct{})
	return a
}

// Handler returns the HTTP routes.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/frame", a.handleFrame)
	mux.HandleFunc("/trigger", a.handleTrigger)
	mux.HandleFunc("/ws", a.handleSocket)
	return mux
}

// Serve listens on addr until the server fails.
func (a *Api) Serve(addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: a.Handler(),
	}
	log.Printf("Listening on %s...", addr)
	return server.ListenAndServe()
}

// SendFrame broadcasts a frame to connected websocket clients. Clients that
// fall behind miss frames.
func (a *Api) SendFrame(f *stream.Frame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for ch := range a.clients {
		select {
		case ch <- b:
		default:
		}
	}
	return nil
}

func (a *Api) handleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	f := a.source.Latest()
	if f == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(f)
}

type triggerResponse struct {
	Trigger string `json:"trigger"`
}

func (a *Api) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 256))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token := strings.TrimSpace(string(body))
	if token == "" {
		token = uuid.NewString()
	}
	a.source.Trigger(token)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(triggerResponse{Trigger: token})
}

func (a *Api) register() chan []byte {
	ch := make(chan []byte, 4)
	a.mu.Lock()
	a.clients[ch] = struct{}{}
	a.mu.Unlock()
	return ch
}

func (a *Api) unregister(ch chan []byte) {
	a.mu.Lock()
	delete(a.clients, ch)
	a.mu.Unlock()
}

func (a *Api) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ch := a.register()
	defer a.unregister(ch)

	if f := a.source.Latest(); f != nil {
		if err := conn.WriteJSON(f); err != nil {
			return
		}
	}

	// Reads only detect the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("Websocket read: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case b := <-ch:
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		}
	}
}
