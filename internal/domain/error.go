package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int    `json:"code" example:"422"`
	Category string `json:"category" example:"EMPTY_DATASET"`
	Message  string `json:"message" example:"Nenhuma perda registrada em 05/2024."`
}
