package handler

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dcastrolima/protocolo-municipal/internal/model"
	"github.com/dcastrolima/protocolo-municipal/internal/repository"
	"github.com/dcastrolima/protocolo-municipal/internal/storage"
)

// maxAnexoBytes caps a single upload at 10 MiB.
const maxAnexoBytes = 10 << 20

// presignTTL is how long a generated download URL stays valid.
const presignTTL = time.Minute

// AnexoHandler manages attachments: metadata in MySQL, bytes in the object
// store. Store may be nil when no bucket is configured; the endpoints then
// answer 503 instead of failing obscurely.
type AnexoHandler struct {
	Anexos     *repository.AnexoRepo
	Protocolos *repository.ProtocoloRepo
	Store      *storage.AnexoStore
}

func NewAnexoHandler(a *repository.AnexoRepo, p *repository.ProtocoloRepo, s *storage.AnexoStore) *AnexoHandler {
	return &AnexoHandler{Anexos: a, Protocolos: p, Store: s}
}

func (h *AnexoHandler) storeUnavailable(c echo.Context) error {
	return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "armazenamento de anexos não configurado"})
}

// sanitizeFileName keeps the base name and replaces anything outside a safe
// character set, so user-supplied names cannot shape the object key.
func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "anexo"
	}
	return b.String()
}

// Upload receives one multipart file under the "arquivo" field and attaches
// it to the protocolo.
func (h *AnexoHandler) Upload(c echo.Context) error {
	if h.Store == nil {
		return h.storeUnavailable(c)
	}
	protocoloID := parseID(c, "id")
	if protocoloID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}

	fh, err := c.FormFile("arquivo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "arquivo é obrigatório"})
	}
	if fh.Size > maxAnexoBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "arquivo excede o limite de 10MB"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	if _, err := h.Protocolos.GetByID(ctx, protocoloID); err != nil {
		if err == repository.ErrProtocoloNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "protocolo não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao consultar protocolo"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao ler arquivo"})
	}
	defer src.Close()

	key := fmt.Sprintf("%d/%d-%s", protocoloID, time.Now().UnixMilli(), sanitizeFileName(fh.Filename))
	mime := fh.Header.Get("Content-Type")
	if err := h.Store.Upload(ctx, key, src, mime); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao enviar arquivo"})
	}

	id, err := h.Anexos.Create(ctx, &model.Anexo{
		ProtocoloID: protocoloID,
		FileName:    fh.Filename,
		StoragePath: key,
		FileSize:    fh.Size,
		MimeType:    mime,
	})
	if err != nil {
		// Orphaned object; remove it so the bucket does not accumulate
		// files no row points to.
		_ = h.Store.Remove(ctx, key)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao salvar anexo"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"sucesso": true, "anexoId": id})
}

// Listar returns the metadata of every anexo of a protocolo.
func (h *AnexoHandler) Listar(c echo.Context) error {
	protocoloID := parseID(c, "id")
	if protocoloID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lista, err := h.Anexos.ListByProtocolo(ctx, protocoloID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao listar anexos"})
	}
	return c.JSON(http.StatusOK, lista)
}

// Download answers with a short-lived presigned URL instead of proxying the
// bytes through the API.
func (h *AnexoHandler) Download(c echo.Context) error {
	if h.Store == nil {
		return h.storeUnavailable(c)
	}
	anexoID := parseID(c, "anexoId")
	if anexoID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Anexos.GetByID(ctx, anexoID)
	if err != nil {
		if err == repository.ErrAnexoNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "anexo não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao consultar anexo"})
	}

	url, err := h.Store.PresignDownload(ctx, a.StoragePath, presignTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao gerar link de download"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sucesso": true, "url": url})
}

// Excluir removes the anexo row and then the stored object.
func (h *AnexoHandler) Excluir(c echo.Context) error {
	if h.Store == nil {
		return h.storeUnavailable(c)
	}
	anexoID := parseID(c, "anexoId")
	if anexoID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	a, err := h.Anexos.GetByID(ctx, anexoID)
	if err != nil {
		if err == repository.ErrAnexoNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "anexo não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao consultar anexo"})
	}
	if err := h.Anexos.Delete(ctx, anexoID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao excluir anexo"})
	}
	// Row is gone; a failed object delete only leaves an unreachable blob.
	_ = h.Store.Remove(ctx, a.StoragePath)

	return c.JSON(http.StatusOK, echo.Map{"sucesso": true})
}
