package service

import (
	"fmt"
)

type ErrInvalidRequest struct {
	error
}

func NewErrInvalidRequest(message string) *ErrInvalidRequest {
	return &ErrInvalidRequest{fmt.Errorf("invalid request: %s", message)}
}

type ErrSimulationFailed struct {
	error
}

func NewErrSimulationFailed(cause error) *ErrSimulationFailed {
	return &ErrSimulationFailed{fmt.Errorf("simulation failed: %w", cause)}
}

func (e *ErrSimulationFailed) Unwrap() error {
	return e.error
}

type ErrTemplateNotFound struct {
	error
}

func NewErrTemplateNotFound(path string) *ErrTemplateNotFound {
	return &ErrTemplateNotFound{fmt.Errorf("document template %s not found", path)}
}
