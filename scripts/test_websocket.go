//go:build ignore

// Connects to the live event feed and prints every message.
//
//	go run scripts/test_websocket.go <token> [host]
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/test_websocket.go <token> [host]")
		fmt.Println("Example: go run scripts/test_websocket.go $TEST_TOKEN localhost:4000")
		os.Exit(1)
	}

	token := os.Args[1]

	host := "localhost:4000"
	if len(os.Args) > 2 {
		host = os.Args[2]
	}

	u := url.URL{Scheme: "ws", Host: host, Path: "/ws/events"}
	fmt.Printf("Connecting to %s\n", u.String())

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	c, resp, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		if resp != nil {
			log.Fatalf("dial: %v (status %d)", err, resp.StatusCode)
		}
		log.Fatal("dial:", err)
	}
	defer c.Close()

	fmt.Println("Connected, waiting for events")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("read:", err)
				return
			}
			fmt.Printf("Received: %s\n", message)
		}
	}()

	ping, _ := json.Marshal(map[string]string{"type": "ping"})
	ticker := time.NewTicker(20 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.WriteMessage(websocket.TextMessage, ping); err != nil {
				log.Println("write:", err)
				return
			}
		case <-interrupt:
			fmt.Println("\nInterrupt received, closing connection...")

			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("write close:", err)
				return
			}

			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		}
	}
}
