package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound        = errors.New("Usuário não encontrado!")
	ErrLawyerNotFound      = errors.New("Advogado não encontrado!")
	ErrDivulgationNotFound = errors.New("Divulgação não encontrada!")
)

// ValidationError reports a required field that arrived empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Campo obrigatório não informado: %s", e.Field)
}

// DomainError carries a user-facing message for semantically invalid input.
type DomainError struct {
	Message string
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

func (e *DomainError) Error() string {
	return e.Message
}

// SendMailSchedulingError wraps any failure in the notification block of a scheduling closure.
type SendMailSchedulingError struct {
	Err error
}

func (e *SendMailSchedulingError) Error() string {
	return "Não foi possível enviar o e-mail de encerramento do agendamento!"
}

func (e *SendMailSchedulingError) Unwrap() error {
	return e.Err
}
