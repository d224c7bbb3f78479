package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gaf135/ivegan-versao-atual/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// entityMessages are the user-facing texts of one back office entity.
type entityMessages struct {
	NotFound  string
	Duplicate string
	Created   string
	Updated   string
	Deleted   string
	InUse     string
}

// getEntity loads the row with the :id parameter into dest, answering 404 when missing.
func (h *Handler) getEntity(c *gin.Context, dest interface{}, msgs entityMessages) bool {
	id, ok := parseID(c, "id")
	if !ok {
		return false
	}
	err := h.DB.WithContext(c.Request.Context()).First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, msgs.NotFound)
		return false
	}
	if err != nil {
		internalError(c, "get", err)
		return false
	}
	return true
}

// createEntity inserts row and answers 201 with its id.
func (h *Handler) createEntity(c *gin.Context, row interface{}, id func() uint, msgs entityMessages) bool {
	err := h.DB.WithContext(c.Request.Context()).Create(row).Error
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"message": msgs.Created, "id": id()})
		return true
	case config.IsDuplicateKey(err):
		respondError(c, http.StatusConflict, msgs.Duplicate)
	case config.IsForeignKeyViolation(err):
		respondError(c, http.StatusBadRequest, "Registro relacionado inexistente")
	default:
		internalError(c, "create", err)
	}
	return false
}

// bindPatch decodes an update body and turns it into a column map.
func bindPatch(c *gin.Context, schema patchSchema) (map[string]interface{}, bool) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return nil, false
	}
	updates, err := schema.build(body)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return updates, true
}

// updateEntity applies updates to the row with the given id and answers.
func (h *Handler) updateEntity(c *gin.Context, model interface{}, id uint, updates map[string]interface{}, msgs entityMessages) bool {
	return patchResult(c, applyPatch(c.Request.Context(), h.DB, model, id, updates), msgs)
}

// patchResult answers an update according to its outcome.
func patchResult(c *gin.Context, err error, msgs entityMessages) bool {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": msgs.Updated})
		return true
	case errors.Is(err, errNoRows):
		respondError(c, http.StatusNotFound, msgs.NotFound)
	case config.IsDuplicateKey(err):
		respondError(c, http.StatusConflict, msgs.Duplicate)
	case config.IsForeignKeyViolation(err):
		respondError(c, http.StatusBadRequest, "Registro relacionado inexistente")
	default:
		internalError(c, "update", err)
	}
	return false
}

// deleteEntity hard-deletes the row with the :id parameter. Rows still
// referenced by orders answer 409 when msgs.InUse is set.
func (h *Handler) deleteEntity(c *gin.Context, model interface{}, msgs entityMessages) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	res := h.DB.WithContext(c.Request.Context()).Delete(model, id)
	switch {
	case res.Error != nil && msgs.InUse != "" && config.IsForeignKeyViolation(res.Error):
		respondError(c, http.StatusConflict, msgs.InUse)
	case res.Error != nil:
		internalError(c, "delete", res.Error)
	case res.RowsAffected == 0:
		respondError(c, http.StatusNotFound, msgs.NotFound)
	default:
		c.JSON(http.StatusOK, gin.H{"message": msgs.Deleted})
	}
}
