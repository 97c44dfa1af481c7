package upload

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"event-guard/config"
	"event-guard/logger"
	"event-guard/types"

	"github.com/gofiber/fiber/v2"
)

// 5 MB cap on uploaded images.
const maxUploadBytes = 5 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type UploadController struct {
	cfg *config.Config
}

func NewUploadController(cfg *config.Config) *UploadController {
	return &UploadController{cfg: cfg}
}

// Store saves an uploaded image to local disk and returns the absolute URL
// it will be served from.
func (h *UploadController) Store(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "image file is required",
			Status:  fiber.StatusBadRequest,
		})
	}

	if file.Size > maxUploadBytes {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "File too large",
			Status:  fiber.StatusBadRequest,
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Unsupported file type",
			Status:  fiber.StatusBadRequest,
		})
	}

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		logger.Error("Failed to create upload directory", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to save file",
			Status:  fiber.StatusInternalServerError,
		})
	}

	name := fmt.Sprintf("%d-%06d%s", time.Now().UnixNano(), rand.Intn(1000000), ext)
	if err := c.SaveFile(file, filepath.Join(h.cfg.UploadDir, name)); err != nil {
		logger.Error("Failed to save uploaded file", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to save file",
			Status:  fiber.StatusInternalServerError,
		})
	}

	url := fmt.Sprintf("%s/uploads/%s", strings.TrimRight(h.cfg.BaseURL, "/"), name)

	logger.Success("File uploaded: " + name)
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message: "File uploaded successfully",
		Status:  fiber.StatusCreated,
		Data:    fiber.Map{"url": url},
	})
}
