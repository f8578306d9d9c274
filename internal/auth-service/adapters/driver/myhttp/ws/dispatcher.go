package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	messagebrokerdto "user-auth/internal/auth-service/core/domain/message_broker_dto"
	websocketdto "user-auth/internal/auth-service/core/domain/websocket_dto"
	"user-auth/internal/mylogger"

	"github.com/gorilla/websocket"
)

// ================================================================================================== //
// websocketUpgrader is used to upgrade incomming HTTP requests into a persitent websocket connection //
// ================================================================================================== //
var websocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ClientList is a map used to help manage a map of clients
type ClientList map[*Client]bool

// Dispatcher pushes user events to every connected admin feed.
type Dispatcher struct {
	ctx     context.Context
	clients ClientList
	sync.RWMutex
	log mylogger.Logger
}

func NewDispatcher(ctx context.Context, log mylogger.Logger) *Dispatcher {
	return &Dispatcher{
		ctx:     ctx,
		clients: make(ClientList),
		log:     log,
	}
}

func (d *Dispatcher) WsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := d.log.Action("wsHandler")

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		client := NewClient(d.ctx, conn, d)
		d.AddClient(client)
		log.Debug("admin feed connected", "clients", d.Count())

		go client.ReadMessage()
		go client.WriteMessage()
	}
}

// Publish sends the event to all clients. A client whose buffer is full is
// dropped instead of stalling the others.
func (d *Dispatcher) Publish(_ context.Context, event messagebrokerdto.UserEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	payload, err := json.Marshal(websocketdto.Event{Type: event.Type, Data: data})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	d.RLock()
	var slow []*Client
	for client := range d.clients {
		select {
		case client.egress <- payload:
		default:
			slow = append(slow, client)
		}
	}
	d.RUnlock()

	for _, client := range slow {
		d.log.Action("wsPublish").Warn("dropping slow admin feed")
		d.RemoveClient(client)
	}
	return nil
}

func (d *Dispatcher) AddClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	d.clients[client] = true
}

func (d *Dispatcher) RemoveClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	if _, ok := d.clients[client]; ok {
		client.conn.Close()
		close(client.egress)
		delete(d.clients, client)
	}
}

func (d *Dispatcher) Count() int {
	d.RLock()
	defer d.RUnlock()
	return len(d.clients)
}

// Close disconnects every client.
func (d *Dispatcher) Close() {
	d.Lock()
	defer d.Unlock()

	for client := range d.clients {
		client.conn.Close()
		close(client.egress)
		delete(d.clients, client)
	}
}
