package models

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// ID is a row reference in a request body. HTML selects post ids as
// strings, so both 7 and "7" decode; an empty string decodes to zero.
type ID uint

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			*id = 0
			return nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return &json.UnmarshalTypeError{Value: "id " + strconv.Quote(s), Type: reflect.TypeOf(uint(0))}
	}
	*id = ID(n)
	return nil
}

// Ref returns the id as an optional foreign key: nil when unset or zero.
func (id *ID) Ref() *uint {
	if id == nil || *id == 0 {
		return nil
	}
	v := uint(*id)
	return &v
}
