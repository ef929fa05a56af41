package repository

import (
	"context"
	"strings"

	"github.com/dcastrolima/protocolo-municipal/internal/model"
)

// Filtros defines the optional search filters.  Every provided filter is
// ANDed; an empty Filtros matches all records (pagination, when wanted, is
// the caller's problem).
type Filtros struct {
	Numero     string // substring match on the display number
	Nome       string // case-insensitive substring match
	Status     string // exact
	Tipo       string // exact, on tipo_requerimento
	Lotacao    string // exact
	DataInicio string // inclusive lower bound on data_solicitacao (YYYY-MM-DD)
	DataFim    string // inclusive upper bound
}

// where builds the WHERE clause fragments and bind args for the filters.
func (f Filtros) where() ([]string, []any) {
	where := []string{}
	args := []any{}
	if f.Numero != "" {
		where = append(where, "numero LIKE ?")
		args = append(args, "%"+f.Numero+"%")
	}
	if f.Nome != "" {
		where = append(where, "LOWER(nome) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Nome)+"%")
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Tipo != "" {
		where = append(where, "tipo_requerimento = ?")
		args = append(args, f.Tipo)
	}
	if f.Lotacao != "" {
		where = append(where, "lotacao = ?")
		args = append(args, f.Lotacao)
	}
	if f.DataInicio != "" {
		where = append(where, "data_solicitacao >= ?")
		args = append(args, f.DataInicio)
	}
	if f.DataFim != "" {
		where = append(where, "data_solicitacao <= ?")
		args = append(args, f.DataFim)
	}
	return where, args
}

func (f Filtros) cond() (string, []any) {
	where, args := f.where()
	if len(where) == 0 {
		return "1=1", args
	}
	return strings.Join(where, " AND "), args
}

// Pesquisar runs the filtered search, newest request first; ties on
// data_solicitacao break by id descending so the ordering is deterministic.
func (r *ProtocoloRepo) Pesquisar(ctx context.Context, f Filtros) ([]model.ProtocoloResumo, error) {
	cond, args := f.cond()
	q := `SELECT id, numero, nome, matricula, tipo_requerimento, status, responsavel,
		IFNULL(DATE_FORMAT(data_solicitacao, '%Y-%m-%d'), '')
		FROM protocolos WHERE ` + cond + `
		ORDER BY data_solicitacao DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ProtocoloResumo, 0)
	for rows.Next() {
		var p model.ProtocoloResumo
		if err := rows.Scan(&p.ID, &p.Numero, &p.Nome, &p.Matricula, &p.TipoRequerimento, &p.Status, &p.Responsavel, &p.DataSolicitacao); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// PesquisarCompleto returns full records for the export endpoint, oldest
// request first so the spreadsheet reads chronologically.
func (r *ProtocoloRepo) PesquisarCompleto(ctx context.Context, f Filtros) ([]model.Protocolo, error) {
	cond, args := f.cond()
	q := `SELECT id, numero, nome, matricula, endereco, municipio, bairro, cep,
		telefone, cpf, rg, cargo, lotacao, unidade_exercicio, tipo_requerimento,
		requer_ao, IFNULL(DATE_FORMAT(data_solicitacao, '%Y-%m-%d'), ''),
		observacoes, status, responsavel, visto
		FROM protocolos WHERE ` + cond + `
		ORDER BY data_solicitacao ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Protocolo, 0)
	for rows.Next() {
		var p model.Protocolo
		if err := rows.Scan(
			&p.ID, &p.Numero, &p.Nome, &p.Matricula, &p.Endereco, &p.Municipio,
			&p.Bairro, &p.CEP, &p.Telefone, &p.CPF, &p.RG, &p.Cargo, &p.Lotacao,
			&p.UnidadeExercicio, &p.TipoRequerimento, &p.RequerAo, &p.DataSolicitacao,
			&p.Observacoes, &p.Status, &p.Responsavel, &p.Visto); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
