package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gaf135/ivegan-versao-atual/services"
	"github.com/gaf135/ivegan-versao-atual/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const msgInternal = "Erro interno do servidor"

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report the wire field names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// internalError logs the cause and answers with a generic 500.
func internalError(c *gin.Context, what string, err error) {
	log.Printf("%s %s: %s: %v", c.Request.Method, c.Request.URL.Path, what, err)
	respondError(c, http.StatusInternalServerError, msgInternal)
}

// bindError answers 400 for a body that failed to decode or validate.
func bindError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, bindingMessage(err))
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return strings.Join(msgs, "; ")
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return "Corpo da requisição vazio"
	case errors.As(err, &syntaxErr):
		return "JSON inválido"
	case errors.As(err, &typeErr):
		return "Tipo inválido para o campo " + typeErr.Field
	}
	return "Dados inválidos"
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return "O campo " + field + " é obrigatório"
	case "email":
		return "Email inválido"
	case "min":
		if fe.Kind() == reflect.String {
			return "O campo " + field + " deve ter pelo menos " + fe.Param() + " caracteres"
		}
		if fe.Kind() == reflect.Slice {
			return "O campo " + field + " deve ter pelo menos " + fe.Param() + " item"
		}
		return "O campo " + field + " deve ser no mínimo " + fe.Param()
	case "max":
		return "O campo " + field + " deve ser no máximo " + fe.Param()
	case "oneof":
		return "O campo " + field + " deve ser um de: " + fe.Param()
	}
	return "O campo " + field + " é inválido"
}

// serviceError maps service sentinels to HTTP statuses.
func serviceError(c *gin.Context, what string, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyOrder):
		respondError(c, http.StatusBadRequest, "O pedido deve conter pelo menos um item")
	case errors.Is(err, services.ErrUnknownReference):
		// The wrapped driver error stays in the logs.
		log.Printf("%s: %v", what, err)
		respondError(c, http.StatusBadRequest, services.ErrUnknownReference.Error())
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrDishNotInRestaurant),
		errors.Is(err, statemachine.ErrUnknownStatus),
		errors.Is(err, statemachine.ErrUnknownPaymentStatus):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrOrderNotFound):
		respondError(c, http.StatusNotFound, "Pedido não encontrado")
	case errors.Is(err, services.ErrCourierNotFound):
		respondError(c, http.StatusNotFound, "Entregador não encontrado")
	case errors.Is(err, services.ErrPaymentNotFound):
		respondError(c, http.StatusNotFound, "Pagamento não encontrado")
	case errors.Is(err, services.ErrReviewNotFound):
		respondError(c, http.StatusNotFound, "Avaliação não encontrada")
	default:
		internalError(c, what, err)
	}
}

// parseID reads a positive numeric path parameter. It answers 400 itself
// when the parameter is invalid.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "ID inválido")
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *gin.Context, name string) uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}
