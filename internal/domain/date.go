package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout é o formato das datas de calendário na API (AAAA-MM-DD).
const DateLayout = "2006-01-02"

// Date é uma data de calendário recebida como "AAAA-MM-DD".
// O valor fica na meia-noite UTC do dia, como CivilDate e as colunas DATE.
type Date struct {
	time.Time
}

// NewDate cria a data de calendário do dia informado.
func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("data deve ser texto no formato AAAA-MM-DD: %w", err)
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return fmt.Errorf("data inválida %q, use AAAA-MM-DD: %w", raw, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

// TimePtr devolve a data como *time.Time (nil quando d é nil).
func (d *Date) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
