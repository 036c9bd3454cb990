// go-window - head-tracked window parallax server
//
// Tracks the viewer's head through a webcam, derives an off-axis
// projection frustum, and streams it to renderer clients over websocket.
package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/holoview/go-window/internal/config"
	"github.com/holoview/go-window/internal/log"
	"github.com/holoview/go-window/pkg/calibration"
	"github.com/holoview/go-window/pkg/camera"
	"github.com/holoview/go-window/pkg/debug"
	"github.com/holoview/go-window/pkg/hub"
	"github.com/holoview/go-window/pkg/landmarks/detection"
	"github.com/holoview/go-window/pkg/pipeline"
	"github.com/holoview/go-window/pkg/web"
)

func main() {
	addr := flag.String("addr", config.Addr(), "Listen address (overrides WINDOW_ADDR)")
	device := flag.Int("device", config.CameraDevice(), "Capture device ID (overrides WINDOW_DEVICE)")
	modelPath := flag.String("model", config.ModelPath(), "YuNet ONNX model path (overrides WINDOW_MODEL)")
	calibPath := flag.String("calibration", config.CalibrationPath(), "Calibration file path (overrides WINDOW_CALIBRATION)")
	faceWidth := flag.Float64("face-width", calibration.DefaultAssumedFaceWidthCm, "Assumed real face width in cm for distance estimation")
	debugFlag := flag.Bool("debug", false, "Enable verbose debug logging")
	debugPose := flag.Bool("debug-pose", false, "Enable per-frame pose debug logs")
	flag.Parse()

	debug.Enabled = *debugFlag
	debug.Pose = *debugPose
	if *debugFlag {
		log.Init("debug")
	} else {
		log.Init("info")
	}

	store := calibration.NewStore(*calibPath)
	store.SetAssumedFaceWidth(*faceWidth)
	if !store.Get().Calibrated {
		log.Warn("running on default calibration; set screen dimensions via PUT /api/calibration")
	}

	detCfg := detection.DefaultConfig()
	detCfg.ModelPath = *modelPath
	detector, err := detection.NewYuNet(detCfg)
	if err != nil {
		log.Error("detector init failed", "err", err)
		return
	}
	defer detector.Close()

	cam, err := camera.Open(camera.Config{
		DeviceID: *device,
		Width:    camera.DefaultConfig().Width,
		Height:   camera.DefaultConfig().Height,
		Quality:  camera.DefaultConfig().Quality,
	})
	if err != nil {
		log.Error("camera init failed", "device", *device, "err", err)
		return
	}
	defer cam.Close()

	pl, err := pipeline.New(pipeline.DefaultConfig(), cam, detector, store)
	if err != nil {
		log.Error("pipeline init failed", "err", err)
		return
	}

	projectionHub := hub.New("projection")
	poseHub := hub.New("pose")
	pl.SetBroadcasters(poseHub, projectionHub)

	server := web.NewServer(*addr, store, pl, projectionHub, poseHub)
	server.StartAsync()
	defer server.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("go-window started", "addr", *addr, "session", pl.Session())
	pl.Run(ctx)
}
