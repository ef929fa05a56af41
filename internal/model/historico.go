package model

// Historico mirrors the 'historico_protocolos' table: the append-only ledger
// of every movimentação of a protocolo.  Rows are never updated and are only
// deleted when the owning protocolo is deleted.  Responsavel records the
// usuario that performed the movimentação (falling back to the new assignee
// when no actor is known).
type Historico struct {
	ID               uint64 `json:"id"`
	ProtocoloID      uint64 `json:"protocolo_id"`
	Status           string `json:"status"` // the status transitioned to
	Responsavel      string `json:"responsavel"`
	Observacao       string `json:"observacao"`
	DataMovimentacao string `json:"data_movimentacao"` // server-assigned, "YYYY-MM-DD HH:MM:SS"
}
