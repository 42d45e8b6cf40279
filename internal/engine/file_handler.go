package engine

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/skyeops/atlas/internal/storage"
	"github.com/skyeops/atlas/internal/store"
)

// FileHandler serves attachment and document uploads. File bytes go to
// the configured storage backend, metadata to the _files meta table.
type FileHandler struct {
	store   *store.Store
	storage storage.FileStorage
	maxSize int64
}

func NewFileHandler(s *store.Store, fs storage.FileStorage, maxSize int64) *FileHandler {
	return &FileHandler{store: s, storage: fs, maxSize: maxSize}
}

func RegisterFileRoutes(app *fiber.App, h *FileHandler, middleware ...fiber.Handler) {
	files := app.Group("/files")
	for _, m := range middleware {
		files.Use(m)
	}

	files.Get("/", h.List)
	files.Post("/", h.Upload)
	files.Get("/:id", h.Serve)
	files.Delete("/:id", h.Delete)
}

func (h *FileHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return InputError("Missing file in form data")
	}

	if file.Size > h.maxSize {
		return NewAppError("FILE_TOO_LARGE", 413,
			fmt.Sprintf("File too large: %d bytes (max %d)", file.Size, h.maxSize))
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	fileID := uuid.New().String()
	filename := file.Filename
	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	storagePath, err := h.storage.Save(c.Context(), fileID, filename, src)
	if err != nil {
		return fmt.Errorf("save file: %w", err)
	}

	var uploadedBy any
	if id, ok := c.Locals("user_id").(string); ok && id != "" {
		uploadedBy = id
	}

	pb := h.store.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf(
		"INSERT INTO _files (id, filename, storage_path, mime_type, size, uploaded_by) VALUES (%s, %s, %s, %s, %s, %s)",
		pb.Add(fileID), pb.Add(filename), pb.Add(storagePath),
		pb.Add(mimeType), pb.Add(file.Size), pb.Add(uploadedBy))
	if _, err := store.Exec(c.Context(), h.store.DB, sqlStr, pb.Params()...); err != nil {
		// Clean up stored content on metadata failure
		_ = h.storage.Delete(c.Context(), storagePath)
		return fmt.Errorf("insert file metadata: %w", err)
	}

	return c.Status(201).JSON(fiber.Map{
		"id":        fileID,
		"filename":  filename,
		"size":      file.Size,
		"mime_type": mimeType,
		"url":       "/files/" + fileID,
	})
}

func (h *FileHandler) Serve(c *fiber.Ctx) error {
	id := c.Params("id")

	pb := h.store.Dialect.NewParamBuilder()
	row, err := store.QueryRow(c.Context(), h.store.DB,
		fmt.Sprintf("SELECT filename, storage_path, mime_type FROM _files WHERE id = %s", pb.Add(id)),
		pb.Params()...)
	if err != nil {
		return NotFoundError("file", id)
	}

	storagePath, _ := row["storage_path"].(string)
	mimeType, _ := row["mime_type"].(string)
	filename, _ := row["filename"].(string)

	reader, err := h.storage.Open(c.Context(), storagePath)
	if err != nil {
		return fmt.Errorf("open stored file: %w", err)
	}
	defer reader.Close()

	c.Set("Content-Type", mimeType)
	c.Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, filename))
	return c.SendStream(reader)
}

func (h *FileHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	pb := h.store.Dialect.NewParamBuilder()
	row, err := store.QueryRow(c.Context(), h.store.DB,
		fmt.Sprintf("SELECT storage_path FROM _files WHERE id = %s", pb.Add(id)),
		pb.Params()...)
	if err != nil {
		return NotFoundError("file", id)
	}

	storagePath, _ := row["storage_path"].(string)
	if err := h.storage.Delete(c.Context(), storagePath); err != nil {
		return fmt.Errorf("delete stored file: %w", err)
	}

	pb = h.store.Dialect.NewParamBuilder()
	if _, err := store.Exec(c.Context(), h.store.DB,
		fmt.Sprintf("DELETE FROM _files WHERE id = %s", pb.Add(id)),
		pb.Params()...); err != nil {
		return fmt.Errorf("delete file metadata: %w", err)
	}

	return c.JSON(fiber.Map{"deleted": true})
}

func (h *FileHandler) List(c *fiber.Ctx) error {
	rows, err := store.QueryRows(c.Context(), h.store.DB,
		"SELECT id, filename, mime_type, size, uploaded_by, created_at FROM _files ORDER BY created_at DESC")
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return c.JSON(fiber.Map{"files": rows})
}
