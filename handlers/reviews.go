package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gaf135/ivegan-versao-atual/models"

	"github.com/gin-gonic/gin"
)

type AdminReviewRequest struct {
	UserID       models.ID `json:"usuario_id" binding:"required"`
	RestaurantID models.ID `json:"restaurante_id" binding:"required"`
	Rating       int       `json:"nota" binding:"required"`
	Comment      *string   `json:"comentario"`
}

// ReviewRow is a review joined with the author and restaurant names.
type ReviewRow struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"usuario_id"`
	UserName       string    `json:"usuario_nome"`
	RestaurantID   uint      `json:"restaurante_id"`
	RestaurantName string    `json:"restaurante_nome"`
	Rating         int       `json:"nota"`
	Comment        *string   `json:"comentario"`
	CreatedAt      time.Time `json:"data_criacao"`
}

var reviewMessages = entityMessages{
	NotFound: "Avaliação não encontrada",
	Created:  "Avaliação criada com sucesso",
	Updated:  "Avaliação atualizada com sucesso",
	Deleted:  "Avaliação excluída com sucesso",
}

func (h *Handler) reviewSchema() patchSchema {
	return patchSchema{
		"usuario_id":     {Column: "user_id", Kind: kindUint},
		"restaurante_id": {Column: "restaurant_id", Kind: kindUint},
		"comentario":     {Column: "comment", Kind: kindString, Nullable: true},
		"nota": {Column: "rating", Kind: kindInt, Check: func(v interface{}) (interface{}, error) {
			if !h.Reviews.ValidRating(v.(int)) {
				return nil, fmt.Errorf("nota deve ser entre %d e %d", models.MinRating, models.MaxRating)
			}
			return v, nil
		}},
	}
}

// AdminGetAllReviews lists reviews with author and restaurant names
func (h *Handler) AdminGetAllReviews(c *gin.Context) {
	query := h.DB.WithContext(c.Request.Context()).
		Table("reviews AS a").
		Select("a.id, a.user_id, u.name AS user_name, a.restaurant_id, " +
			"r.public_name AS restaurant_name, a.rating, a.comment, a.created_at").
		Joins("JOIN users u ON u.id = a.user_id").
		Joins("JOIN restaurants r ON r.id = a.restaurant_id")
	if restaurantID := queryUint(c, "restaurante_id"); restaurantID != 0 {
		query = query.Where("a.restaurant_id = ?", restaurantID)
	}

	rows := []ReviewRow{}
	if err := query.Order("a.id DESC").Scan(&rows).Error; err != nil {
		internalError(c, "list reviews", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) AdminGetReview(c *gin.Context) {
	var review models.Review
	if h.getEntity(c, &review, reviewMessages) {
		c.JSON(http.StatusOK, review)
	}
}

func (h *Handler) AdminCreateReview(c *gin.Context) {
	var req AdminReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	review := models.Review{
		UserID:       uint(req.UserID),
		RestaurantID: uint(req.RestaurantID),
		Rating:       req.Rating,
		Comment:      optional(req.Comment),
	}
	if err := h.Reviews.Create(c.Request.Context(), &review); err != nil {
		serviceError(c, "create review", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": reviewMessages.Created, "id": review.ID})
}

// AdminUpdateReview patches a review and refreshes the averages of the
// restaurants it belonged to before and after.
func (h *Handler) AdminUpdateReview(c *gin.Context) {
	var review models.Review
	if !h.getEntity(c, &review, reviewMessages) {
		return
	}
	updates, ok := bindPatch(c, h.reviewSchema())
	if !ok {
		return
	}
	ctx := c.Request.Context()
	err := applyPatch(ctx, h.DB, &models.Review{}, review.ID, updates)
	if err == nil {
		moved, _ := updates["restaurant_id"].(uint)
		err = h.Reviews.Recompute(ctx, review.RestaurantID, moved)
	}
	patchResult(c, err, reviewMessages)
}

func (h *Handler) AdminDeleteReview(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Reviews.Delete(c.Request.Context(), id); err != nil {
		serviceError(c, "delete review", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": reviewMessages.Deleted})
}
