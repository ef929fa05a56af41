// Package model defines the domain entities persisted by the repository layer.
package model

// Protocolo mirrors the 'protocolos' table.  The requester and classification
// fields are immutable request payload; Status, Responsavel and Visto form the
// mutable current state and may only change through a movimentação (see the
// repository layer), never through a plain field update.
type Protocolo struct {
	ID               uint64 `json:"id"`
	Numero           string `json:"numero"` // display number "NNNN/YYYY", unique, never regenerated
	Nome             string `json:"nome"`
	Matricula        string `json:"matricula"`
	Endereco         string `json:"endereco"`
	Municipio        string `json:"municipio"`
	Bairro           string `json:"bairro"`
	CEP              string `json:"cep"`
	Telefone         string `json:"telefone"`
	CPF              string `json:"cpf"`
	RG               string `json:"rg"`
	Cargo            string `json:"cargo"`
	Lotacao          string `json:"lotacao"`
	UnidadeExercicio string `json:"unidade_exercicio"`
	TipoRequerimento string `json:"tipo_requerimento"`
	RequerAo         string `json:"requer_ao"`
	DataSolicitacao  string `json:"data_solicitacao"` // request date (YYYY-MM-DD), distinct from row creation
	Observacoes      string `json:"observacoes"`
	Status           string `json:"status"`
	Responsavel      string `json:"responsavel"`
	Visto            bool   `json:"visto"`
}

// ProtocoloResumo is the summary projection returned by listings and search.
type ProtocoloResumo struct {
	ID               uint64 `json:"id"`
	Numero           string `json:"numero"`
	Nome             string `json:"nome"`
	Matricula        string `json:"matricula"`
	TipoRequerimento string `json:"tipo_requerimento"`
	Status           string `json:"status"`
	Responsavel      string `json:"responsavel"`
	DataSolicitacao  string `json:"data_solicitacao,omitempty"`
}

// StatusAberto is the status assigned to a protocolo created without an
// explicit status.  The vocabulary is deliberately open-ended: the UI offers
// a fixed list plus "Outro", but the backend accepts any value.
const StatusAberto = "Aberto"

// StatusFinalizado and StatusConcluido are the two terminal statuses the
// dashboard treats as closed when counting stale open protocolos.
const (
	StatusFinalizado = "Finalizado"
	StatusConcluido  = "Concluído"
)
