package repository

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicate          = errors.New("duplicate record")
	ErrConflict           = errors.New("conditional update did not match")
	ErrInsufficientPoints = errors.New("insufficient points")
)
