package main

import (
	"bufio"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// send formats and sends a named event to the server.
func send(c *websocket.Conn, event string, payload interface{}) error {
	var data json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		data = encoded
	}
	return c.WriteJSON(&envelope{Event: event, Data: data})
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:8080", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			var env envelope
			if err := c.ReadJSON(&env); err != nil {
				log.Printf("Read error: %v", err)
				return
			}
			log.Printf("<- %s %s", env.Event, string(env.Data))
		}
	}()

	// Input loop: "<event> <json payload>", e.g.
	//   create-room {"username":"alice"}
	//   join-room {"username":"bob","roomCode":"Ab12-x"}
	//   start-game {"roomCode":"Ab12-x","roomConfig":{"winConditionNumber":5}}
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			parts := strings.SplitN(line, " ", 2)
			event := parts[0]
			var payload interface{}
			if len(parts) == 2 {
				payload = json.RawMessage(parts[1])
			}
			if err := send(c, event, payload); err != nil {
				log.Printf("Send error: %v", err)
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupted, closing connection")
			c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
