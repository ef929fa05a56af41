package model

// Servidor is one row of the municipal staff registry, keyed by matrícula.
// The front end uses it to autofill the request form; the table is loaded
// from the RH export and never written through this API.
type Servidor struct {
	Matricula        string `json:"matricula"`
	Nome             string `json:"nome"`
	Lotacao          string `json:"lotacao"`
	Cargo            string `json:"cargo"`
	UnidadeExercicio string `json:"unidade_exercicio"`
}
