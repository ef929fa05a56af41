package repository

import (
	"context"
	"database/sql"

	"github.com/dcastrolima/protocolo-municipal/internal/model"
	"github.com/dcastrolima/protocolo-municipal/internal/utils"
)

// ProtocoloRepo owns the canonical protocolo record.  Every mutation of the
// current-state columns (status, responsavel, visto) happens here, inside a
// transaction that also appends the matching historico entry; there is no
// code path that updates those columns silently.
type ProtocoloRepo struct {
	db *sql.DB
}

// NewProtocoloRepo constructs a ProtocoloRepo bound to the given database.
func NewProtocoloRepo(db *sql.DB) *ProtocoloRepo { return &ProtocoloRepo{db: db} }

// Create inserts a new protocolo and its first historico entry as one atomic
// unit.  An empty status defaults to "Aberto"; visto always starts false.
// A collision on the UNIQUE numero column returns ErrNumeroExists so the
// handler can tell the client to fetch a fresh número and resubmit — the
// documented retry contract for the numbering race.
func (r *ProtocoloRepo) Create(ctx context.Context, p *model.Protocolo) (uint64, error) {
	if p.Status == "" {
		p.Status = model.StatusAberto
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const ins = `INSERT INTO protocolos
		(numero, nome, matricula, endereco, municipio, bairro, cep, telefone, cpf, rg,
		 cargo, lotacao, unidade_exercicio, tipo_requerimento, requer_ao,
		 data_solicitacao, observacoes, status, responsavel, visto)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, FALSE)`
	res, err := tx.ExecContext(ctx, ins,
		p.Numero, p.Nome, p.Matricula, p.Endereco, p.Municipio, p.Bairro, p.CEP,
		p.Telefone, p.CPF, p.RG, p.Cargo, p.Lotacao, p.UnidadeExercicio,
		p.TipoRequerimento, p.RequerAo, nullIfEmpty(p.DataSolicitacao),
		p.Observacoes, p.Status, p.Responsavel)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrNumeroExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	// The creation itself is the first ledger entry; every protocolo has at
	// least one historico row from birth.
	if err := appendHistoricoTx(ctx, tx, uint64(id), p.Status, p.Responsavel, "Protocolo criado"); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uint64(id), nil
}

// Movimentacao describes one status/assignee transition to apply.
type Movimentacao struct {
	ProtocoloID     uint64
	NovoStatus      string
	NovoResponsavel string // empty keeps the current responsável
	Observacao      string
	Ator            string // login of the usuario performing the change
}

// MovimentacaoResultado reports the applied transition, including the state
// it replaced.  Handlers use it to build the published event.
type MovimentacaoResultado struct {
	Numero         string
	StatusAnterior string
	NovoStatus     string
	Responsavel    string
	Ator           string
}

// Movimentar applies one transition: it updates the protocolo's current
// status/responsável, resets visto to false (the "new notification" signal
// for whoever now holds the protocolo) and appends the historico entry — all
// in a single transaction.  A crash between the two writes leaves the
// pre-transition state; a state update without its ledger entry can never be
// observed.  The historico row records the acting usuario, falling back to
// the new responsável when no actor is known.
func (r *ProtocoloRepo) Movimentar(ctx context.Context, m Movimentacao) (MovimentacaoResultado, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return MovimentacaoResultado{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var numero, statusAtual, respAtual string
	err = tx.QueryRowContext(ctx,
		`SELECT numero, status, responsavel FROM protocolos WHERE id = ? FOR UPDATE`,
		m.ProtocoloID).Scan(&numero, &statusAtual, &respAtual)
	if err == sql.ErrNoRows {
		return MovimentacaoResultado{}, ErrProtocoloNotFound
	}
	if err != nil {
		return MovimentacaoResultado{}, err
	}

	resp := m.NovoResponsavel
	if resp == "" {
		resp = respAtual
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE protocolos SET status = ?, responsavel = ?, visto = FALSE WHERE id = ?`,
		m.NovoStatus, resp, m.ProtocoloID); err != nil {
		return MovimentacaoResultado{}, err
	}

	ator := m.Ator
	if ator == "" {
		ator = resp
	}
	if err := appendHistoricoTx(ctx, tx, m.ProtocoloID, m.NovoStatus, ator, m.Observacao); err != nil {
		return MovimentacaoResultado{}, err
	}
	if err := tx.Commit(); err != nil {
		return MovimentacaoResultado{}, err
	}
	committed = true
	return MovimentacaoResultado{
		Numero:         numero,
		StatusAnterior: statusAtual,
		NovoStatus:     m.NovoStatus,
		Responsavel:    resp,
		Ator:           ator,
	}, nil
}

// UpdateCampos replaces the descriptive fields of a protocolo.  The display
// number and the current-state columns are deliberately excluded: numero is
// never regenerated and status/responsavel/visto belong to Movimentar.
// The DSN sets clientFoundRows, so a zero RowsAffected means the row does not
// exist, not that the update was a no-op.
func (r *ProtocoloRepo) UpdateCampos(ctx context.Context, id uint64, p *model.Protocolo) error {
	const q = `UPDATE protocolos SET
		nome = ?, matricula = ?, endereco = ?, municipio = ?, bairro = ?, cep = ?,
		telefone = ?, cpf = ?, rg = ?, cargo = ?, lotacao = ?, unidade_exercicio = ?,
		tipo_requerimento = ?, requer_ao = ?, data_solicitacao = ?, observacoes = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		p.Nome, p.Matricula, p.Endereco, p.Municipio, p.Bairro, p.CEP,
		p.Telefone, p.CPF, p.RG, p.Cargo, p.Lotacao, p.UnidadeExercicio,
		p.TipoRequerimento, p.RequerAo, nullIfEmpty(p.DataSolicitacao), p.Observacoes, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProtocoloNotFound
	}
	return nil
}

// Delete removes a protocolo with its anexo metadata and historico entries as
// one atomic unit.  The child rows go first so the foreign keys never block
// the protocolo delete and no orphan can survive a partial failure.  Hard
// delete, no tombstone: this mirrors how the município archives records
// outside the system before purging them here.  Object-store bytes are not
// touched here; the handler removes them best-effort after the commit.
func (r *ProtocoloRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM anexos WHERE protocolo_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM historico_protocolos WHERE protocolo_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM protocolos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProtocoloNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID returns the full protocolo record.
func (r *ProtocoloRepo) GetByID(ctx context.Context, id uint64) (*model.Protocolo, error) {
	const q = `SELECT id, numero, nome, matricula, endereco, municipio, bairro, cep,
		telefone, cpf, rg, cargo, lotacao, unidade_exercicio, tipo_requerimento,
		requer_ao, IFNULL(DATE_FORMAT(data_solicitacao, '%Y-%m-%d'), ''),
		observacoes, status, responsavel, visto
		FROM protocolos WHERE id = ?`
	var p model.Protocolo
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.Numero, &p.Nome, &p.Matricula, &p.Endereco, &p.Municipio,
		&p.Bairro, &p.CEP, &p.Telefone, &p.CPF, &p.RG, &p.Cargo, &p.Lotacao,
		&p.UnidadeExercicio, &p.TipoRequerimento, &p.RequerAo, &p.DataSolicitacao,
		&p.Observacoes, &p.Status, &p.Responsavel, &p.Visto)
	if err == sql.ErrNoRows {
		return nil, ErrProtocoloNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListAll returns the summary projection of every protocolo, newest row first.
func (r *ProtocoloRepo) ListAll(ctx context.Context) ([]model.ProtocoloResumo, error) {
	const q = `SELECT id, numero, nome, matricula, tipo_requerimento, status, responsavel
		FROM protocolos ORDER BY id DESC`
	return r.scanResumos(ctx, q)
}

// ListByResponsavel returns the queue of a staff member ("meus protocolos"),
// newest row first.
func (r *ProtocoloRepo) ListByResponsavel(ctx context.Context, responsavel string) ([]model.ProtocoloResumo, error) {
	const q = `SELECT id, numero, nome, matricula, tipo_requerimento, status, responsavel
		FROM protocolos WHERE responsavel = ? ORDER BY id DESC`
	return r.scanResumos(ctx, q, responsavel)
}

func (r *ProtocoloRepo) scanResumos(ctx context.Context, q string, args ...any) ([]model.ProtocoloResumo, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ProtocoloResumo, 0)
	for rows.Next() {
		var p model.ProtocoloResumo
		if err := rows.Scan(&p.ID, &p.Numero, &p.Nome, &p.Matricula, &p.TipoRequerimento, &p.Status, &p.Responsavel); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UltimoNumero returns the highest sequential number already used in the
// given year, 0 when none exist.  The value is advisory: nothing is reserved,
// and two concurrent clients may well receive the same answer.  The UNIQUE
// constraint on numero arbitrates at insert time; losers get ErrNumeroExists
// and re-request.  Rows with a malformed prefix are skipped, not fatal.
func (r *ProtocoloRepo) UltimoNumero(ctx context.Context, ano int) (int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT numero FROM protocolos WHERE numero LIKE ?`,
		"%/"+itoa(ano))
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	max := 0
	for rows.Next() {
		var numero string
		if err := rows.Scan(&numero); err != nil {
			return 0, err
		}
		if n, ok := utils.ParseNumero(numero); ok && n > max {
			max = n
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return max, nil
}

// CountNaoVistos counts protocolos assigned to a responsável that were moved
// since they last opened their queue.  This drives the notification badge.
func (r *ProtocoloRepo) CountNaoVistos(ctx context.Context, responsavel string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(id) FROM protocolos WHERE responsavel = ? AND visto = FALSE`,
		responsavel).Scan(&n)
	return n, err
}

// MarcarVistos flags every unseen protocolo of a responsável as seen.  This
// only touches visto; status and responsavel stay under Movimentar's control.
func (r *ProtocoloRepo) MarcarVistos(ctx context.Context, responsavel string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE protocolos SET visto = TRUE WHERE responsavel = ? AND visto = FALSE`,
		responsavel)
	return err
}
