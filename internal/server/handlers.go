package server

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/crimson-sun/smsguard/internal/model"
)

// reservedKeys are request fields the pipeline owns; everything else in the
// request body is opaque passthrough, echoed unchanged in the response and
// never inspected.
var reservedKeys = map[string]struct{}{
	"text":          {},
	"prediction":    {},
	"confidence":    {},
	"probabilities": {},
	"is_fraud":      {},
	"error":         {},
}

// Predict classifies a single message.
// POST /predict
func (s *Server) Predict(c *fiber.Ctx) error {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}

	raw, ok := body["text"]
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "text field is required")
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "text must be a string")
	}

	pred, err := s.engine.Classify(text)
	if err != nil {
		slog.Error("prediction failed",
			"error", err,
			"request_id", c.Locals("requestid"),
		)
		return fiber.NewError(fiber.StatusInternalServerError, "prediction failed: "+err.Error())
	}

	resp := predictionBody(pred)
	for k, v := range body {
		if _, reserved := reservedKeys[k]; reserved {
			continue
		}
		resp[k] = v
	}
	return c.JSON(resp)
}

// PredictBatch classifies a sequence of messages, one result per input in
// input order. A failing item becomes an error entry; it never aborts the
// batch.
// POST /predict/batch
func (s *Server) PredictBatch(c *fiber.Ctx) error {
	var req struct {
		Messages []string `json:"messages"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	if req.Messages == nil {
		return fiber.NewError(fiber.StatusBadRequest, "messages field is required")
	}
	if len(req.Messages) > s.maxBatch {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("batch exceeds %d messages", s.maxBatch))
	}

	items := s.engine.ClassifyBatch(req.Messages)
	results := make([]fiber.Map, len(items))
	for i, it := range items {
		if it.Failed() {
			results[i] = fiber.Map{
				"message":    it.Message,
				"prediction": "error",
				"confidence": 0.0,
				"error":      it.Err.Error(),
			}
			continue
		}
		results[i] = predictionBody(*it.Result)
	}
	return c.JSON(fiber.Map{"results": results})
}

// Health reports whether the classifier artifact is loaded.
// GET /health
func (s *Server) Health(c *fiber.Ctx) error {
	loaded := s.engine.Healthy()
	status := "healthy"
	code := fiber.StatusOK
	if !loaded {
		status = "unhealthy"
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":       status,
		"model_loaded": loaded,
	})
}

func predictionBody(p model.Prediction) fiber.Map {
	return fiber.Map{
		"prediction":    p.Label,
		"confidence":    p.Confidence,
		"probabilities": p.Probabilities,
		"is_fraud":      p.IsFraud,
	}
}
