package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrConstraintViolation = errors.New("violación de restricción")
	ErrUnknown             = errors.New("error de almacenamiento")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrUnauthorized        = errors.New("no autorizado")
)

// StorageError error estructurado devuelto por la capa de almacenamiento.
// Kind es uno de ErrNotFound, ErrConstraintViolation, ErrInvalidInput o ErrUnknown;
// errors.Is funciona tanto con Kind como con la causa original.
type StorageError struct {
	Op         string // findMany, findUnique, create, update, delete, deleteMany
	Collection string
	Kind       error
	Err        error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Collection, e.Kind, e.Err)
}

// Unwrap expone Kind y la causa para errors.Is / errors.As.
func (e *StorageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf clasifica err dentro de la taxonomía de almacenamiento.
func KindOf(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrConstraintViolation):
		return ErrConstraintViolation
	case errors.Is(err, ErrInvalidInput):
		return ErrInvalidInput
	default:
		return ErrUnknown
	}
}
