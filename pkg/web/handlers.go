package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/holoview/go-window/pkg/calibration"
	"github.com/holoview/go-window/pkg/pipeline"
)

// handleStatus returns pipeline and connection status
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"pipeline":           s.pipeline.Status(),
		"projection_clients": s.projectionHub.ClientCount(),
		"pose_clients":       s.poseHub.ClientCount(),
	})
}

// handleGetCalibration returns the current calibration record
func (s *Server) handleGetCalibration(c *fiber.Ctx) error {
	return c.JSON(s.store.Get())
}

// handleUpdateCalibration applies a partial calibration update
func (s *Server) handleUpdateCalibration(c *fiber.Ctx) error {
	var patch calibration.Patch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := s.store.Update(patch); err != nil {
		if errors.Is(err, calibration.ErrInvalidCalibration) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(s.store.Get())
}

// handleResetCalibration restores compiled-in defaults
func (s *Server) handleResetCalibration(c *fiber.Ctx) error {
	s.store.Reset()
	return c.JSON(s.store.Get())
}

// EstimateRequest is the request body for distance estimation
type EstimateRequest struct {
	FaceWidthNorm float64 `json:"face_width_norm"`
}

// handleEstimateDistance estimates viewing distance from an observed
// normalized face width
func (s *Server) handleEstimateDistance(c *fiber.Ctx) error {
	var req EstimateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	return c.JSON(fiber.Map{
		"face_width_norm": req.FaceWidthNorm,
		"distance_cm":     s.store.EstimateViewingDistance(req.FaceWidthNorm),
	})
}

// handleGetTuning returns current tuning parameters
func (s *Server) handleGetTuning(c *fiber.Ctx) error {
	return c.JSON(s.pipeline.GetTuningParams())
}

// handleSetTuning updates tuning parameters at runtime
func (s *Server) handleSetTuning(c *fiber.Ctx) error {
	var params pipeline.TuningParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	s.pipeline.SetTuningParams(params)
	return c.JSON(s.pipeline.GetTuningParams())
}
