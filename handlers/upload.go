package handlers

import (
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gaf135/ivegan-versao-atual/middleware"
	"github.com/gaf135/ivegan-versao-atual/models"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 64 << 10

var photoExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var photoMIMETypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

const msgOnlyImages = "Apenas imagens são permitidas (jpeg, jpg, png, gif, webp)"

// UploadPhoto stores a profile picture sent as the multipart field "foto".
func (h *Handler) UploadPhoto(c *gin.Context) {
	maxBytes := h.Config.UploadMaxBytes
	tooLarge := "Arquivo muito grande. Tamanho máximo: " + humanize.IBytes(uint64(maxBytes))

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)
	header, err := c.FormFile("foto")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(c, http.StatusRequestEntityTooLarge, tooLarge)
			return
		}
		respondError(c, http.StatusBadRequest, "Nenhum arquivo enviado")
		return
	}
	if header.Size > maxBytes {
		respondError(c, http.StatusRequestEntityTooLarge, tooLarge)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !photoExtensions[ext] {
		respondError(c, http.StatusBadRequest, msgOnlyImages)
		return
	}

	file, err := header.Open()
	if err != nil {
		internalError(c, "open upload", err)
		return
	}
	mtype, err := mimetype.DetectReader(file)
	file.Close()
	if err != nil {
		internalError(c, "sniff upload", err)
		return
	}
	if !mimetype.EqualsAny(mtype.String(), photoMIMETypes...) {
		respondError(c, http.StatusBadRequest, msgOnlyImages)
		return
	}

	if err := os.MkdirAll(h.Config.UploadDir, 0o755); err != nil {
		internalError(c, "create upload dir", err)
		return
	}
	filename := "profile-" + uuid.NewString() + ext
	if err := c.SaveUploadedFile(header, filepath.Join(h.Config.UploadDir, filename)); err != nil {
		internalError(c, "save upload", err)
		return
	}

	photoURL := path.Join(h.Config.UploadURLPrefix, filename)
	err = h.DB.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("id = ?", middleware.GetUserID(c)).
		Update("photo_url", photoURL).Error
	if err != nil {
		os.Remove(filepath.Join(h.Config.UploadDir, filename))
		internalError(c, "update photo", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Foto de perfil atualizada com sucesso",
		"fotoUrl": photoURL,
	})
}
