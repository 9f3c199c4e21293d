// Package respond concentra a escrita das respostas JSON dos handlers.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"agrostock/internal/domain"
	apperror "agrostock/internal/errors"
	"agrostock/internal/pkg/logger"
)

// DateLayout é o formato das datas de calendário nos parâmetros de consulta.
const DateLayout = domain.DateLayout

// JSON processa o resultado do serviço e envia a resposta padronizada ao cliente.
// Com err != nil o status vem de MapToHTTPStatus e successStatus é ignorado.
func JSON(w http.ResponseWriter, r *http.Request, log logger.Logger, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)

		log.Debug("Requisição concluída com sucesso", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": successStatus,
		})

		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				log.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		// Erros de cliente (4xx) ficam no nível debug
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}

// DecodeJSON lê o corpo da requisição; campos desconhecidos são rejeitados.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.NewValidationError("Payload inválido. Verifique o formato JSON.")
	}
	return nil
}

// ParseAsOf lê o parâmetro asOf (AAAA-MM-DD) no fuso informado.
// Ausente devolve o instante zero, que os serviços tratam como "agora".
func ParseAsOf(r *http.Request, loc *time.Location) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("asOf"))
	if raw == "" {
		return time.Time{}, nil
	}
	asOf, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, apperror.NewValidationError(fmt.Sprintf("Data de referência inválida: %q (use AAAA-MM-DD).", raw))
	}
	return asOf, nil
}

// ParseID converte um identificador de rota em inteiro positivo.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewValidationError(fmt.Sprintf("ID inválido: %q.", raw))
	}
	return id, nil
}

// QueryInt lê um parâmetro inteiro opcional (0 quando ausente).
func QueryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.NewValidationError(fmt.Sprintf("Parâmetro %s inválido: %q.", name, raw))
	}
	return v, nil
}
