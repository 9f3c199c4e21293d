// Package docs registra a especificação Swagger servida em /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{.Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/avaliacoes": {
            "post": {
                "produces": ["application/json"],
                "tags": ["painel"],
                "summary": "Executa uma passagem de avaliação",
                "parameters": [
                    {"type": "string", "description": "Data de referência (AAAA-MM-DD)", "name": "asOf", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/lifecycleservice.PassResult"}},
                    "503": {"description": "Armazenamento indisponível", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/notificacoes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["painel"],
                "summary": "Produtos vencidos, estoque baixo e notificações",
                "parameters": [
                    {"type": "string", "description": "Data de referência (AAAA-MM-DD)", "name": "asOf", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dashboardservice.NotificationView"}},
                    "503": {"description": "Armazenamento indisponível", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/perdas": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["perdas"],
                "summary": "Registra uma perda manual",
                "parameters": [
                    {"description": "Perda", "name": "perda", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.LossRegistration"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.LossRecord"}},
                    "400": {"description": "Payload inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "404": {"description": "Produto não encontrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/perdas/agregados": {
            "get": {
                "produces": ["application/json"],
                "tags": ["perdas"],
                "summary": "Séries mensal, anual e diária das perdas",
                "parameters": [
                    {"type": "string", "description": "Data de referência (AAAA-MM-DD)", "name": "asOf", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/lossservice.Aggregates"}}
                }
            }
        },
        "/perdas/historico": {
            "get": {
                "produces": ["application/json"],
                "tags": ["perdas"],
                "summary": "Histórico de perdas (manuais e automáticas)",
                "parameters": [
                    {"type": "string", "description": "Data de referência (AAAA-MM-DD)", "name": "asOf", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.LossRecord"}}}
                }
            }
        },
        "/perdas/relatorio": {
            "get": {
                "produces": ["application/json"],
                "tags": ["perdas"],
                "summary": "Perdas do período para o relatório",
                "parameters": [
                    {"type": "string", "description": "MENSAL ou ANUAL", "name": "modo", "in": "query", "required": true},
                    {"type": "integer", "description": "Mês (1-12)", "name": "mes", "in": "query"},
                    {"type": "integer", "description": "Ano", "name": "ano", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dashboardservice.ReportData"}},
                    "400": {"description": "Período inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "422": {"description": "Período sem registros", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/produtos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["produtos"],
                "summary": "Lista produtos",
                "parameters": [
                    {"type": "boolean", "description": "Inclui produtos inativos", "name": "todos", "in": "query"},
                    {"type": "string", "description": "Filtro por nome", "name": "nome", "in": "query"},
                    {"type": "string", "description": "Filtro por categoria", "name": "categoria", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dashboardservice.ProductListing"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["produtos"],
                "summary": "Cadastra um produto",
                "parameters": [
                    {"description": "Dados do produto", "name": "produto", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.ProductCreateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Product"}},
                    "400": {"description": "Payload inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/produtos/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["produtos"],
                "summary": "Obtém um produto por ID",
                "parameters": [
                    {"type": "integer", "description": "ID do produto", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Product"}},
                    "404": {"description": "Produto não encontrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/produtos/{id}/ativo": {
            "patch": {
                "consumes": ["application/json"],
                "tags": ["produtos"],
                "summary": "Ativa ou desativa um produto manualmente",
                "parameters": [
                    {"type": "integer", "description": "ID do produto", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Produto não encontrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/estoque/entradas": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["estoque"],
                "summary": "Registra entrada de estoque",
                "parameters": [
                    {"description": "Entrada de estoque", "name": "entrada", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.StockEntryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.StockRecord"}},
                    "409": {"description": "Conflito de concorrência", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/estoque/{produtoId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["estoque"],
                "summary": "Obtém o estoque de um produto",
                "parameters": [
                    {"type": "integer", "description": "ID do produto", "name": "produtoId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.StockRecord"}},
                    "404": {"description": "Estoque não encontrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 422},
                "category": {"type": "string", "example": "EMPTY_DATASET"},
                "message": {"type": "string", "example": "Nenhuma perda registrada em 05/2024."}
            }
        },
        "domain.StockRecord": {
            "type": "object",
            "properties": {
                "produtoId": {"type": "integer"},
                "quantidadeAtual": {"type": "integer"},
                "quantidadeMinima": {"type": "integer"},
                "versao": {"type": "integer"},
                "atualizadoEm": {"type": "string"}
            }
        },
        "domain.Product": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "nome": {"type": "string"},
                "descricao": {"type": "string"},
                "categoria": {"type": "string"},
                "ativo": {"type": "boolean"},
                "dataColheita": {"type": "string"},
                "dataValidade": {"type": "string"},
                "criadoEm": {"type": "string"},
                "atualizadoEm": {"type": "string"},
                "estoque": {"$ref": "#/definitions/domain.StockRecord"}
            }
        },
        "domain.ProductCreateRequest": {
            "type": "object",
            "properties": {
                "nome": {"type": "string"},
                "descricao": {"type": "string"},
                "categoria": {"type": "string"},
                "dataColheita": {"type": "string", "format": "date", "example": "2024-06-01"},
                "dataValidade": {"type": "string", "format": "date", "example": "2024-06-20"},
                "quantidadeInicial": {"type": "integer"},
                "quantidadeMinima": {"type": "integer"}
            }
        },
        "domain.StockEntryRequest": {
            "type": "object",
            "properties": {
                "produtoId": {"type": "integer"},
                "quantidade": {"type": "integer"},
                "quantidadeMinima": {"type": "integer"}
            }
        },
        "domain.LossRecord": {
            "type": "object",
            "properties": {
                "origem": {"type": "string", "enum": ["MANUAL", "AUTOMATICA"]},
                "id": {"type": "integer"},
                "sequencia": {"type": "integer"},
                "produtoId": {"type": "integer"},
                "quantidade": {"type": "integer"},
                "motivo": {"type": "string"},
                "dataPerda": {"type": "string"},
                "criadoEm": {"type": "string"}
            }
        },
        "domain.LossRegistration": {
            "type": "object",
            "properties": {
                "produtoId": {"type": "integer"},
                "quantidade": {"type": "integer"},
                "motivo": {"type": "string", "example": "AVARIA"}
            }
        },
        "domain.Notification": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "tipo": {"type": "string", "enum": ["PRODUTO_VENCIDO", "ESTOQUE_BAIXO", "ESTOQUE_CRITICO"]},
                "titulo": {"type": "string"},
                "mensagem": {"type": "string"},
                "link": {"type": "string"}
            }
        },
        "dashboardservice.NotificationView": {
            "type": "object",
            "properties": {
                "referencia": {"type": "string"},
                "vencidos": {"type": "array", "items": {"$ref": "#/definitions/domain.Product"}},
                "estoqueBaixo": {"type": "array", "items": {"$ref": "#/definitions/domain.Product"}},
                "paraDesativar": {"type": "array", "items": {"$ref": "#/definitions/domain.Product"}},
                "notificacoes": {"type": "array", "items": {"$ref": "#/definitions/domain.Notification"}}
            }
        },
        "lifecycleservice.DeactivationResult": {
            "type": "object",
            "properties": {
                "produtoId": {"type": "integer"},
                "nome": {"type": "string"},
                "desativado": {"type": "boolean"},
                "erro": {"type": "string"}
            }
        },
        "dashboardservice.ProductListing": {
            "type": "object",
            "properties": {
                "passagemId": {"type": "string"},
                "produtos": {"type": "array", "items": {"$ref": "#/definitions/domain.Product"}},
                "desativacoes": {"type": "array", "items": {"$ref": "#/definitions/lifecycleservice.DeactivationResult"}}
            }
        },
        "lifecycleservice.PassResult": {
            "type": "object",
            "properties": {
                "avaliacao": {
                    "type": "object",
                    "properties": {
                        "passagemId": {"type": "string"},
                        "referencia": {"type": "string"},
                        "vencidos": {"type": "array", "items": {"$ref": "#/definitions/domain.Product"}},
                        "estoqueBaixo": {"type": "array", "items": {"$ref": "#/definitions/domain.Product"}},
                        "paraDesativar": {"type": "array", "items": {"$ref": "#/definitions/domain.Product"}}
                    }
                },
                "desativacoes": {"type": "array", "items": {"$ref": "#/definitions/lifecycleservice.DeactivationResult"}}
            }
        },
        "lossservice.Aggregates": {
            "type": "object",
            "properties": {
                "ano": {"type": "integer"},
                "mensal": {"type": "array", "items": {"type": "integer"}},
                "anual": {"type": "array", "items": {"type": "object", "properties": {"ano": {"type": "integer"}, "total": {"type": "integer"}}}},
                "diario": {"type": "array", "items": {"type": "object", "properties": {"data": {"type": "string"}, "total": {"type": "integer"}}}}
            }
        },
        "dashboardservice.ReportData": {
            "type": "object",
            "properties": {
                "modo": {"type": "string", "enum": ["MENSAL", "ANUAL"]},
                "mes": {"type": "integer"},
                "ano": {"type": "integer"},
                "total": {"type": "integer"},
                "perdas": {"type": "array", "items": {"$ref": "#/definitions/domain.LossRecord"}}
            }
        }
    }
}`

// SwaggerInfo guarda as informações exportadas da especificação.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "AgroStock API",
	Description:      "Ciclo de vida de produtos perecíveis e painel de perdas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
