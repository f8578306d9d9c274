// Command helper tails the admin user-event feed and prints each event.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"user-auth/internal/config"
	"user-auth/internal/mylogger"

	"github.com/gorilla/websocket"
)

type feedEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func main() {
	// Initialize config and logger
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := mylogger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	addr := flag.String("addr", "localhost:"+cfg.Srv.AuthServicePort, "auth service host:port")
	token := flag.String("token", "", "access token, needed when ADMIN_AUTH_REQUIRED is on")
	flag.Parse()

	wsURL := "ws://" + *addr + "/ws/admin/users/"

	header := http.Header{}
	if *token != "" {
		header.Set("Authorization", "Bearer "+*token)
	}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		appLogger.Error("Failed to connect to WebSocket server", err, "url", wsURL, "status", status)
		os.Exit(1)
	}
	defer conn.Close()
	appLogger.Action("WebSocket_connected").Info("Connected to admin feed", "url", wsURL)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					appLogger.Error("Error reading WebSocket message", err)
				}
				return
			}

			var event feedEvent
			if err := json.Unmarshal(message, &event); err != nil {
				appLogger.Warn("Skipping malformed message", "message", string(message))
				continue
			}
			appLogger.Info("Received event", "type", event.Type, "data", string(event.Data))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-done:
	case <-stop:
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}
