package domain

import (
	"time"
)

// Product representa um item perecível do catálogo, com o estoque embutido.
// O campo IsActive é alterado apenas pela avaliação de ciclo de vida (para false)
// ou por ação manual do administrador.
type Product struct {
	ID          int64      `json:"id"`
	Name        string     `json:"nome"`
	Description string     `json:"descricao"`
	Category    string     `json:"categoria"`
	IsActive    bool       `json:"ativo"`
	HarvestDate *time.Time `json:"dataColheita,omitempty"`
	ExpiryDate  *time.Time `json:"dataValidade,omitempty"` // Data de calendário; nunca muda depois de definida
	CreatedAt   time.Time  `json:"criadoEm"`
	UpdatedAt   time.Time  `json:"atualizadoEm"`

	// Estoque embutido (nil quando o produto ainda não tem registro de estoque)
	Stock *StockRecord `json:"estoque,omitempty"`
}

// StockRecord é o registro de estoque de um produto.
// Current nunca é negativo e só muda pela operação de entrada de estoque.
type StockRecord struct {
	ProductID int64     `json:"produtoId"`
	Current   int       `json:"quantidadeAtual"`
	Minimum   *int      `json:"quantidadeMinima,omitempty"` // nil = padrão DefaultMinimumStock
	Version   int       `json:"versao"`                     // Controle de Concorrência Otimista (OCC)
	UpdatedAt time.Time `json:"atualizadoEm"`
}

// MinimumOrDefault devolve o mínimo configurado ou o padrão do sistema.
func (s StockRecord) MinimumOrDefault() int {
	if s.Minimum == nil {
		return DefaultMinimumStock
	}
	return *s.Minimum
}

// ProductFilter define os parâmetros de busca do snapshot.
type ProductFilter struct {
	ActiveOnly bool
	Name       string
	Category   string
}

// Matches aplica o filtro em memória (usado depois da avaliação de ciclo de vida).
func (f ProductFilter) Matches(p Product) bool {
	if f.ActiveOnly && !p.IsActive {
		return false
	}
	if f.Name != "" && !containsFold(p.Name, f.Name) {
		return false
	}
	if f.Category != "" && !equalFold(p.Category, f.Category) {
		return false
	}
	return true
}

// ProductCreateRequest é o payload de criação de produto.
type ProductCreateRequest struct {
	Name         string `json:"nome"`
	Description  string `json:"descricao"`
	Category     string `json:"categoria"`
	HarvestDate  *Date  `json:"dataColheita,omitempty" swaggertype:"string" example:"2024-06-01"`
	ExpiryDate   *Date  `json:"dataValidade,omitempty" swaggertype:"string" example:"2024-06-20"`
	InitialStock int    `json:"quantidadeInicial"`
	Minimum      *int   `json:"quantidadeMinima,omitempty"`
}

// StockEntryRequest é o payload da entrada (reposição) de estoque.
type StockEntryRequest struct {
	ProductID int64 `json:"produtoId"`
	Quantity  int   `json:"quantidade"`
	Minimum   *int  `json:"quantidadeMinima,omitempty"`
}

// CloneProducts copia o snapshot, incluindo o estoque embutido, para que uma
// passagem de avaliação possa alterá-lo sem afetar outras.
func CloneProducts(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		if p.Stock != nil {
			s := *p.Stock
			p.Stock = &s
		}
		out[i] = p
	}
	return out
}
