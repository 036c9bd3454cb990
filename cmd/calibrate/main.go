// calibrate - push calibration updates to a running go-window server.
//
// Examples:
//
//	calibrate -screen-width 52.7 -screen-height 29.6
//	calibrate -distance 75
//	calibrate -reset
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/holoview/go-window/internal/httpc"
	"github.com/holoview/go-window/pkg/calibration"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "go-window server base URL")
	screenW := flag.Float64("screen-width", 0, "Physical screen width in cm")
	screenH := flag.Float64("screen-height", 0, "Physical screen height in cm")
	distance := flag.Float64("distance", 0, "Viewing distance in cm")
	pixelW := flag.Int("pixel-width", 0, "Screen width in pixels")
	pixelH := flag.Int("pixel-height", 0, "Screen height in pixels")
	reset := flag.Bool("reset", false, "Reset calibration to defaults")
	flag.Parse()

	if *reset {
		req, _ := http.NewRequest(http.MethodDelete, *server+"/api/calibration", nil)
		respond(req)
		return
	}

	var patch calibration.Patch
	if *screenW > 0 {
		patch.ScreenWidthCm = screenW
	}
	if *screenH > 0 {
		patch.ScreenHeightCm = screenH
	}
	if *distance > 0 {
		patch.ViewingDistanceCm = distance
	}
	if *pixelW > 0 {
		patch.PixelWidth = pixelW
	}
	if *pixelH > 0 {
		patch.PixelHeight = pixelH
	}

	if patch == (calibration.Patch{}) {
		fmt.Fprintln(os.Stderr, "nothing to update; see -help")
		os.Exit(1)
	}

	body, err := json.Marshal(patch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode patch: %v\n", err)
		os.Exit(1)
	}

	req, _ := http.NewRequest(http.MethodPut, *server+"/api/calibration", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	respond(req)
}

// respond executes the request and prints the server's reply.
func respond(req *http.Request) {
	resp, err := httpc.Client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "server returned %s: %s\n", resp.Status, raw)
		os.Exit(1)
	}
	fmt.Printf("%s\n", raw)
}
