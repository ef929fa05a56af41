// Package queue defines message payloads exchanged over the message broker.
package queue

// ProtocoloMovimentadoEvent is published whenever a protocolo changes status
// or responsável. It carries enough context for downstream consumers to log
// or notify without querying the primary database.
type ProtocoloMovimentadoEvent struct {
	ProtocoloID    uint64 `json:"protocolo_id"`
	Numero         string `json:"numero"`
	StatusAnterior string `json:"status_anterior"`
	NovoStatus     string `json:"novo_status"`
	Responsavel    string `json:"responsavel"`
	Ator           string `json:"ator"`
	Observacao     string `json:"observacao"`
	MovimentadoEm  string `json:"movimentado_em"`
}
