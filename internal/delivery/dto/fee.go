package dto

import (
	"encoding/json"
	"errors"
	"strconv"

	"go-medical-marketplace/internal/domain/entity"
)

var errInvalidFee = errors.New("fees must be a number")

// FeeAmount accepts either a JSON number or a string such as "1,500"
type FeeAmount int

func (f *FeeAmount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		v, err := strconv.Atoi(n.String())
		if err != nil {
			return errInvalidFee
		}
		*f = FeeAmount(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errInvalidFee
	}
	v, ok := entity.ParseFee(s)
	if !ok {
		return errInvalidFee
	}
	*f = FeeAmount(v)
	return nil
}
