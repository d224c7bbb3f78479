package handlers

import (
	"net/http"
	"strings"

	"github.com/gaf135/ivegan-versao-atual/models"

	"github.com/gin-gonic/gin"
)

type CourierRequest struct {
	Name        string  `json:"nome"`
	CPF         string  `json:"cpf"`
	VehicleType string  `json:"tipo_veiculo"`
	Plate       *string `json:"placa"`
	Status      string  `json:"status"`
}

var courierMessages = entityMessages{
	NotFound:  "Entregador não encontrado",
	Duplicate: "CPF já cadastrado",
	Created:   "Entregador criado com sucesso",
	Updated:   "Entregador atualizado com sucesso",
	Deleted:   "Entregador excluído com sucesso",
}

var courierStatuses = []string{
	string(models.CourierAvailable),
	string(models.CourierUnavailable),
	string(models.CourierDelivering),
}

var courierSchema = patchSchema{
	"nome":         {Column: "name", Kind: kindString},
	"cpf":          {Column: "cpf", Kind: kindString},
	"tipo_veiculo": {Column: "vehicle_type", Kind: kindString},
	"placa":        {Column: "plate", Kind: kindString, Nullable: true},
	"status":       {Column: "status", Kind: kindString, Check: checkOneOf(courierStatuses...)},
}

func (r *CourierRequest) model() (*models.Courier, string) {
	courier := &models.Courier{
		Name:        strings.TrimSpace(r.Name),
		CPF:         strings.TrimSpace(r.CPF),
		VehicleType: strings.TrimSpace(r.VehicleType),
		Plate:       optional(r.Plate),
		Status:      models.CourierStatus(strings.ToLower(strings.TrimSpace(r.Status))),
	}
	if courier.Name == "" || courier.CPF == "" || courier.VehicleType == "" {
		return nil, "Nome, CPF e tipo de veículo são obrigatórios"
	}
	if courier.Status == "" {
		courier.Status = models.CourierAvailable
	}
	if !courier.Status.IsValid() {
		return nil, "Status inválido. Valores aceitos: " + strings.Join(courierStatuses, ", ")
	}
	return courier, ""
}

func (h *Handler) createCourier(c *gin.Context) {
	var req CourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	courier, problem := req.model()
	if problem != "" {
		respondError(c, http.StatusBadRequest, problem)
		return
	}
	h.createEntity(c, courier, func() uint { return courier.ID }, courierMessages)
}

// RegisterCourier is the public self-service courier signup
func (h *Handler) RegisterCourier(c *gin.Context) {
	h.createCourier(c)
}

func (h *Handler) AdminCreateCourier(c *gin.Context) {
	h.createCourier(c)
}

// AdminGetAllCouriers lists couriers, optionally filtered by ?status=
func (h *Handler) AdminGetAllCouriers(c *gin.Context) {
	query := h.DB.WithContext(c.Request.Context()).Order("id DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	couriers := []models.Courier{}
	if err := query.Find(&couriers).Error; err != nil {
		internalError(c, "list couriers", err)
		return
	}
	c.JSON(http.StatusOK, couriers)
}

func (h *Handler) AdminGetCourier(c *gin.Context) {
	var courier models.Courier
	if h.getEntity(c, &courier, courierMessages) {
		c.JSON(http.StatusOK, courier)
	}
}

func (h *Handler) AdminUpdateCourier(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	updates, ok := bindPatch(c, courierSchema)
	if !ok {
		return
	}
	h.updateEntity(c, &models.Courier{}, id, updates, courierMessages)
}

// AdminDeleteCourier removes a courier; its orders become unassigned.
func (h *Handler) AdminDeleteCourier(c *gin.Context) {
	h.deleteEntity(c, &models.Courier{}, courierMessages)
}
