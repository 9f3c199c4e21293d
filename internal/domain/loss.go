package domain

import (
	"fmt"
	"time"
)

// LossOrigin distingue perdas registradas manualmente das inferidas por vencimento.
type LossOrigin string

const (
	LossManual    LossOrigin = "MANUAL"
	LossSynthetic LossOrigin = "AUTOMATICA"
)

// ExpiryLossReason é o motivo fixo das perdas sintéticas.
const ExpiryLossReason = "VENCIMENTO (Automático)"

// Motivos conhecidos de perda manual. Texto livre também é aceito.
const (
	ReasonExpiry        = "VENCIMENTO"
	ReasonDamage        = "AVARIA"
	ReasonDeterioration = "DETERIORACAO"
	ReasonTheft         = "ROUBO"
	ReasonOther         = "OUTRO"
)

// LossRecord é uma perda de estoque. Perdas manuais têm ID do banco (> 0);
// perdas sintéticas nunca são persistidas e usam Sequence (posição na lista de
// vencidos, a partir de 1) como identificação local.
type LossRecord struct {
	Origin    LossOrigin `json:"origem"`
	ID        int64      `json:"id,omitempty"`
	Sequence  int        `json:"sequencia,omitempty"`
	ProductID int64      `json:"produtoId"`
	Quantity  int        `json:"quantidade"`
	Reason    string     `json:"motivo"`
	LossDate  time.Time  `json:"dataPerda"`
	CreatedAt *time.Time `json:"criadoEm,omitempty"`
}

// IsSynthetic informa se a perda foi derivada de um produto vencido.
func (l LossRecord) IsSynthetic() bool {
	return l.Origin == LossSynthetic
}

// Key devolve uma chave estável e sem ambiguidade entre as duas origens (útil para a UI).
func (l LossRecord) Key() string {
	if l.IsSynthetic() {
		return fmt.Sprintf("auto-%d", l.Sequence)
	}
	return fmt.Sprintf("manual-%d", l.ID)
}

// LossFilter restringe a leitura das perdas manuais.
type LossFilter struct {
	ProductID int64
	From      *time.Time
	To        *time.Time
}

// LossRegistration é o payload de registro de perda manual.
type LossRegistration struct {
	ProductID int64  `json:"produtoId"`
	Quantity  int    `json:"quantidade"`
	Reason    string `json:"motivo"`
}
