package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gaf135/ivegan-versao-atual/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	errEmptyPatch = errors.New("Nenhum campo para atualizar")
	errNoRows     = errors.New("no rows matched")
)

var fieldValidator = validator.New()

type fieldKind int

const (
	kindString fieldKind = iota
	kindDecimal
	kindUint
	kindInt
)

// patchField maps one JSON key of an update body to a column.
type patchField struct {
	Column   string
	Kind     fieldKind
	Nullable bool
	// Check validates and may rewrite the decoded value.
	Check func(v interface{}) (interface{}, error)
}

// patchSchema lists the JSON keys an update accepts. Keys not listed are ignored.
type patchSchema map[string]patchField

// build turns an update body into a column map. An absent key leaves the
// column unchanged; an explicit null clears it when the column is nullable.
func (s patchSchema) build(body map[string]json.RawMessage) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	for key, raw := range body {
		field, ok := s[key]
		if !ok {
			continue
		}
		if isNull(raw) {
			if !field.Nullable {
				return nil, fmt.Errorf("O campo %s não pode ser nulo", key)
			}
			updates[field.Column] = nil
			continue
		}
		v, err := decodeField(key, field, raw)
		if err != nil {
			return nil, err
		}
		if field.Check != nil && v != nil {
			if v, err = field.Check(v); err != nil {
				return nil, fmt.Errorf("O campo %s é inválido: %v", key, err)
			}
		}
		updates[field.Column] = v
	}
	if len(updates) == 0 {
		return nil, errEmptyPatch
	}
	return updates, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeField(key string, field patchField, raw json.RawMessage) (interface{}, error) {
	switch field.Kind {
	case kindDecimal:
		var d decimal.Decimal
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("O campo %s deve ser numérico", key)
		}
		if d.IsNegative() {
			return nil, fmt.Errorf("O campo %s não pode ser negativo", key)
		}
		return d, nil
	case kindUint:
		var id models.ID
		if err := json.Unmarshal(raw, &id); err != nil {
			return nil, fmt.Errorf("O campo %s deve ser um ID válido", key)
		}
		if id == 0 {
			if field.Nullable {
				return nil, nil
			}
			return nil, fmt.Errorf("O campo %s deve ser um ID válido", key)
		}
		return uint(id), nil
	case kindInt:
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("O campo %s deve ser um número inteiro", key)
		}
		return n, nil
	default:
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return nil, fmt.Errorf("O campo %s deve ser texto", key)
		}
		str = strings.TrimSpace(str)
		if str == "" {
			if field.Nullable {
				return nil, nil
			}
			return nil, fmt.Errorf("O campo %s não pode ser vazio", key)
		}
		return str, nil
	}
}

// applyPatch writes updates to the row with the given id.
func applyPatch(ctx context.Context, db *gorm.DB, model interface{}, id uint, updates map[string]interface{}) error {
	res := db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNoRows
	}
	return nil
}

func checkEmail(v interface{}) (interface{}, error) {
	email := strings.ToLower(v.(string))
	if err := fieldValidator.Var(email, "email"); err != nil {
		return nil, errors.New("email inválido")
	}
	return email, nil
}

func checkMinLen(n int) func(v interface{}) (interface{}, error) {
	return func(v interface{}) (interface{}, error) {
		if s, ok := v.(string); ok && len([]rune(s)) < n {
			return nil, fmt.Errorf("mínimo de %d caracteres", n)
		}
		return v, nil
	}
}

func checkOneOf(allowed ...string) func(v interface{}) (interface{}, error) {
	return func(v interface{}) (interface{}, error) {
		s, _ := v.(string)
		s = strings.ToLower(s)
		for _, a := range allowed {
			if s == a {
				return s, nil
			}
		}
		return nil, fmt.Errorf("valores aceitos: %s", strings.Join(allowed, ", "))
	}
}
