// replay - run recorded pose samples through the filter and projector
//
// Reads a JSONL file where each line is either a raw pose sample
// {"x":0.5,"y":0.5,"z":1.0} or the literal null for a missed detection,
// and prints the resulting frustum per frame. Useful for tuning the
// smoothing factor against a captured head-movement trace without a
// camera attached.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/holoview/go-window/internal/log"
	"github.com/holoview/go-window/pkg/calibration"
	"github.com/holoview/go-window/pkg/headpose"
	"github.com/holoview/go-window/pkg/pipeline"
)

func main() {
	in := flag.String("in", "", "JSONL pose trace to replay (required)")
	calibPath := flag.String("calibration", "", "Calibration file path (empty = defaults)")
	alpha := flag.Float64("alpha", 0, "Override smoothing factor")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "Usage: replay -in trace.jsonl [-calibration calibration.json] [-alpha 0.3]")
		os.Exit(1)
	}

	file, err := os.Open(*in)
	if err != nil {
		log.Error("open trace", "err", err)
		os.Exit(1)
	}
	defer file.Close()

	store := calibration.NewStore(*calibPath)
	cfg := pipeline.DefaultConfig()
	if *alpha > 0 {
		cfg.Filter.Alpha = *alpha
	}

	pl, err := pipeline.New(cfg, nil, nil, store)
	if err != nil {
		log.Error("pipeline init failed", "err", err)
		os.Exit(1)
	}

	scanner := bufio.NewScanner(file)
	frame := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		frame++

		var sample *headpose.Sample
		if err := json.Unmarshal(line, &sample); err != nil {
			log.Warn("skipping malformed line", "frame", frame, "err", err)
			continue
		}

		pl.Feed(sample)

		if frustum, ok := pl.Projector().Frustum(); ok {
			fmt.Printf("frame %4d  l=%+.5f r=%+.5f b=%+.5f t=%+.5f\n",
				frame, frustum.Left, frustum.Right, frustum.Bottom, frustum.Top)
		} else {
			fmt.Printf("frame %4d  (no frustum yet)\n", frame)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error("read trace", "err", err)
		os.Exit(1)
	}
}
