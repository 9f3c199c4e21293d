package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do serviço.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION", "NOT_FOUND", "INTERNAL")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa falhas de validação de dados de entrada.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// ConflictError representa um conflito na regra de negócio (e.g., OCC, recurso duplicado).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito (usado em OCC).
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// EmptyDatasetError indica que o período pedido não tem registros.
// É uma mensagem para o usuário, não uma falha do sistema.
type EmptyDatasetError struct {
	Msg string
}

func (e *EmptyDatasetError) Error() string    { return fmt.Sprintf("Sem dados: %s", e.Msg) }
func (e *EmptyDatasetError) Category() string { return "EMPTY_DATASET" }
func (e *EmptyDatasetError) HTTPStatus() int  { return http.StatusUnprocessableEntity } // 422
func (e *EmptyDatasetError) Unwrap() error    { return nil }

// NewEmptyDatasetError cria o erro de período sem registros.
func NewEmptyDatasetError(msg string) AppError {
	return &EmptyDatasetError{Msg: msg}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Erro Interno: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("Erro Interno: %s", e.Msg)
}
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(fmt.Sprintf("%s (DB)", msg), err)
}

// StoreUnavailableError indica que a leitura do snapshot ou das perdas falhou.
// Nenhum snapshot parcial é usado.
type StoreUnavailableError struct {
	Msg string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("Armazenamento indisponível: %s: %v", e.Msg, e.Err)
}
func (e *StoreUnavailableError) Category() string { return "STORE_UNAVAILABLE" }
func (e *StoreUnavailableError) HTTPStatus() int  { return http.StatusServiceUnavailable } // 503
func (e *StoreUnavailableError) Unwrap() error    { return e.Err }

// NewStoreUnavailableError encapsula a falha de leitura do armazenamento.
func NewStoreUnavailableError(msg string, err error) AppError {
	return &StoreUnavailableError{Msg: msg, Err: err}
}

// DeactivationFailedError é a falha de desativação de um único produto.
// É coletada por produto e nunca interrompe a passagem de avaliação.
type DeactivationFailedError struct {
	ProductID int64
	Err       error
}

func (e *DeactivationFailedError) Error() string {
	return fmt.Sprintf("Falha ao desativar produto %d: %v", e.ProductID, e.Err)
}
func (e *DeactivationFailedError) Category() string { return "DEACTIVATION_FAILED" }
func (e *DeactivationFailedError) HTTPStatus() int  { return http.StatusBadGateway } // 502
func (e *DeactivationFailedError) Unwrap() error    { return e.Err }

// NewDeactivationFailedError cria a falha de desativação do produto informado.
func NewDeactivationFailedError(productID int64, err error) AppError {
	return &DeactivationFailedError{ProductID: productID, Err: err}
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP e corpo de resposta.
// Erros tipados encapsulados com %w também são reconhecidos.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado: tratar como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}
