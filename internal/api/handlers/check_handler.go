package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/misinfo-detector/backend/internal/pipeline"
	"github.com/misinfo-detector/backend/internal/storage/models"
	"github.com/misinfo-detector/backend/internal/storage/sqlite"
	"github.com/misinfo-detector/backend/pkg/logger"
)

type Processor interface {
	Process(ctx context.Context, rawText string) ([]pipeline.Result, error)
}

type HistoryStore interface {
	GetHistory(limit int) ([]models.VerificationRecord, error)
	GetVerification(id int64) (*models.VerificationRecord, error)
	DeleteVerification(id int64) (bool, error)
}

type CheckHandler struct {
	processor Processor
	store     HistoryStore
}

func NewCheckHandler(processor Processor, store HistoryStore) *CheckHandler {
	return &CheckHandler{
		processor: processor,
		store:     store,
	}
}

// HandleCheck verifies every claim in the submitted text and returns
// one result per claim.
func (h *CheckHandler) HandleCheck(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	results, err := h.processor.Process(c.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrEmptyInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Empty text",
			})
		case errors.Is(err, pipeline.ErrDependencyUnavailable):
			logger.Error("Segmentation dependency unavailable", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Claim segmentation unavailable",
			})
		default:
			logger.Error("Failed to process verification", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to process verification",
			})
		}
	}

	return c.JSON(results)
}

// GetHistory returns the most recent verification records. The limit
// defaults to 50 and is clamped by the storage layer to [1, 500].
func (h *CheckHandler) GetHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	records, err := h.store.GetHistory(limit)
	if err != nil {
		logger.Error("Failed to get history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get history",
		})
	}

	results := make([]pipeline.Result, 0, len(records))
	for _, rec := range records {
		results = append(results, pipeline.ResultFromRecord(rec))
	}

	return c.JSON(results)
}

// GetHistoryItem returns one verification record by ID.
func (h *CheckHandler) GetHistoryItem(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid record id",
		})
	}

	rec, err := h.store.GetVerification(id)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Record not found",
			})
		}
		logger.Error("Failed to get record", zap.Int64("record_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get record",
		})
	}

	return c.JSON(pipeline.ResultFromRecord(*rec))
}

// DeleteHistoryItem removes one verification record by ID.
func (h *CheckHandler) DeleteHistoryItem(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid record id",
		})
	}

	deleted, err := h.store.DeleteVerification(id)
	if err != nil {
		logger.Error("Failed to delete record", zap.Int64("record_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete record",
		})
	}

	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Record not found",
		})
	}

	return c.JSON(fiber.Map{
		"deleted": true,
		"id":      id,
	})
}
