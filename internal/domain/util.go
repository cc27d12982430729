package domain

import (
	"github.com/yours-lab/backend/pkg/enum"
	"github.com/yours-lab/backend/pkg/errorx"
)

func toEnum[T comparable](s string) (T, error) {
	value, err := enum.ToEnum[T](s)
	if err != nil {
		return value, errorx.New(errorx.BadRequest, "Invalid value %s", s)
	}

	return value, nil
}
