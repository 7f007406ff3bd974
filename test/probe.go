// Command probe is a manual load exerciser: it connects N websocket
// clients to a running server, creates or joins a room and spams guesses
// and strokes at it.
//
// Usage: go run ./test <number_of_clients> [roomId]
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

const wsURL = "ws://localhost:3000/ws"

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run ./test <number_of_clients> [roomId]")
	}

	numClients, err := strconv.Atoi(os.Args[1])
	if err != nil {
		log.Fatal("Invalid number of clients:", err)
	}

	roomID := fmt.Sprintf("probe-%d", rand.Intn(100000))
	if len(os.Args) >= 3 {
		roomID = os.Args[2]
	}

	for i := 0; i < numClients; i++ {
		go run(roomID, fmt.Sprintf("player%d", i), i == 0)
	}

	select {} // let the goroutines run
}

func send(conn *websocket.Conn, typ string, data string) error {
	msg, err := json.Marshal(envelope{Type: typ, Data: json.RawMessage(data)})
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, msg)
}

func run(roomID, username string, creator bool) {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Println("WS connect error:", err)
		return
	}
	defer conn.Close()

	// Drain inbound messages so the server never sees a full queue.
	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			fmt.Printf("%s <- %s\n", username, msg)
		}
	}()

	if creator {
		send(conn, "createRoom", fmt.Sprintf(`{"roomId":%q,"username":%q}`, roomID, username))
		time.Sleep(2 * time.Second) // let others join before starting
		send(conn, "startGame", fmt.Sprintf(`{"roomId":%q}`, roomID))
	} else {
		time.Sleep(500 * time.Millisecond)
		send(conn, "joinRoom", fmt.Sprintf(`{"roomId":%q,"username":%q}`, roomID, username))
	}

	guesses := []string{"dog", "cat", "pizza", "house", "dragon"}
	for i := 0; i < 100; i++ {
		var err error
		if rand.Intn(2) == 0 {
			err = send(conn, "submitGuess", fmt.Sprintf(`{"roomId":%q,"guess":%q}`, roomID, guesses[rand.Intn(len(guesses))]))
		} else {
			err = send(conn, "drawing", fmt.Sprintf(`{"roomId":%q,"stroke":{"x":%d,"y":%d}}`, roomID, rand.Intn(800), rand.Intn(600)))
		}
		if err != nil {
			log.Printf("write error for %s: %v", username, err)
			return
		}
		time.Sleep(time.Duration(100+rand.Intn(900)) * time.Millisecond)
	}

	fmt.Printf("%s finished\n", username)
}
