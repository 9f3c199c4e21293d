package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// NotificationType é o tipo da notificação exibida no painel.
type NotificationType string

const (
	NotificationExpired       NotificationType = "PRODUTO_VENCIDO"
	NotificationLowStock      NotificationType = "ESTOQUE_BAIXO"
	NotificationCriticalStock NotificationType = "ESTOQUE_CRITICO"
)

// ProductLinkPrefix é o prefixo de rota usado pela UI; o último segmento é o ID do produto.
const ProductLinkPrefix = "/estoquista/produtos/"

// Notification é uma projeção do estado do produto no momento da leitura. Não é persistida.
type Notification struct {
	ID      string           `json:"id"`
	Type    NotificationType `json:"tipo"`
	Title   string           `json:"titulo"`
	Message string           `json:"mensagem"`
	Link    string           `json:"link"`
}

// ProductLink monta o link de navegação para o produto.
func ProductLink(productID int64) string {
	return fmt.Sprintf("%s%d", ProductLinkPrefix, productID)
}

// ProductIDFromLink extrai o ID do produto do último segmento do link.
func ProductIDFromLink(link string) (int64, error) {
	trimmed := strings.TrimRight(link, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 || idx == len(trimmed)-1 {
		return 0, fmt.Errorf("link sem segmento de ID: %q", link)
	}
	id, err := strconv.ParseInt(trimmed[idx+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ID inválido no link %q: %w", link, err)
	}
	return id, nil
}
