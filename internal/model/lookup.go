package model

// Lookup mirrors the small admin-managed reference tables
// ('tipos_requerimento' and 'lotacoes').  Inactive entries stay in the table
// so historical protocolos keep referencing them by name.
type Lookup struct {
	ID    uint64 `json:"id"`
	Nome  string `json:"nome"`
	Ativo bool   `json:"ativo"`
}
