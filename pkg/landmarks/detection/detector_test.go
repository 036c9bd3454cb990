package detection

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ModelPath == "" {
		t.Error("default config missing model path")
	}
	if cfg.ConfidenceThresh <= 0 || cfg.ConfidenceThresh >= 1 {
		t.Errorf("confidence threshold %v outside (0, 1)", cfg.ConfidenceThresh)
	}
	if cfg.InputWidth <= 0 || cfg.InputHeight <= 0 {
		t.Errorf("input size %dx%d not positive", cfg.InputWidth, cfg.InputHeight)
	}
}

func TestNewYuNet_MissingModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPath = "does/not/exist.onnx"

	if _, err := NewYuNet(cfg); err == nil {
		t.Error("expected error for missing model file")
	}
}
