// probe - subscribe to a running go-window server and print projection
// updates, standing in for a renderer during tuning.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"

	"github.com/holoview/go-window/pkg/protocol"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws/projection", "Projection websocket URL")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", *url, err)
		os.Exit(1)
	}
	defer conn.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		conn.Close()
	}()

	fmt.Printf("connected to %s\n", *url)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := protocol.ParseMessage(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad message: %v\n", err)
			continue
		}
		if msg.Type != protocol.TypeProjection {
			continue
		}

		var payload protocol.ProjectionPayload
		if err := msg.ParseData(&payload); err != nil {
			fmt.Fprintf(os.Stderr, "bad payload: %v\n", err)
			continue
		}

		fmt.Printf("eye=(%+.4f %+.4f %+.4f)  frustum l=%+.5f r=%+.5f b=%+.5f t=%+.5f\n",
			payload.Eye.X, payload.Eye.Y, payload.Eye.Z,
			payload.Frustum.Left, payload.Frustum.Right,
			payload.Frustum.Bottom, payload.Frustum.Top)
	}
}
