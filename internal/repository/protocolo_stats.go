package repository

import (
	"context"

	"github.com/dcastrolima/protocolo-municipal/internal/model"
)

// DashboardOpcoes selects what the dashboard aggregates.  The embedded
// Filtros narrow the counting queries (numero/nome are unused there); the
// Evolucao fields shape the time series.
type DashboardOpcoes struct {
	Filtros
	EvolucaoPeriodo     string // "7d", "30d", "month" (current month), "all"
	EvolucaoAgrupamento string // "day" or "month" buckets
}

// TipoTotal is one row of the top-types ranking.
type TipoTotal struct {
	Tipo  string `json:"tipo_requerimento"`
	Total int64  `json:"total"`
}

// StatusTotal is one row of the by-status breakdown.
type StatusTotal struct {
	Status string `json:"status"`
	Total  int64  `json:"total"`
}

// EvolucaoPonto is one bucket of the creation time series.
type EvolucaoPonto struct {
	Intervalo string `json:"intervalo"` // "YYYY-MM-DD" or "YYYY-MM" depending on grouping
	Total     int64  `json:"total"`
}

// DashboardStats is the aggregate payload behind GET /protocolos/dashboard-stats.
type DashboardStats struct {
	NovosNoPeriodo     int64           `json:"novosNoPeriodo"`
	PendentesAntigos   int64           `json:"pendentesAntigos"`
	TotalFinalizados   int64           `json:"totalFinalizados"`
	TopTipos           []TipoTotal     `json:"topTipos"`
	StatusProtocolos   []StatusTotal   `json:"statusProtocolos"`
	EvolucaoProtocolos []EvolucaoPonto `json:"evolucaoProtocolos"`
}

// DashboardStats computes the dashboard aggregates in a handful of read-only
// queries.  PendentesAntigos uses a fixed 15-day threshold over the whole
// table regardless of the filters: it is an operational alarm, not a report.
func (r *ProtocoloRepo) DashboardStats(ctx context.Context, o DashboardOpcoes) (*DashboardStats, error) {
	stats := &DashboardStats{
		TopTipos:           []TipoTotal{},
		StatusProtocolos:   []StatusTotal{},
		EvolucaoProtocolos: []EvolucaoPonto{},
	}
	cond, args := o.cond()

	// "New in period" defaults to the last 7 days when no start date is given.
	novosCond := cond
	if o.DataInicio == "" {
		novosCond += " AND data_solicitacao >= DATE_SUB(CURDATE(), INTERVAL 7 DAY)"
	}
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(id) FROM protocolos WHERE "+novosCond, args...).Scan(&stats.NovosNoPeriodo); err != nil {
		return nil, err
	}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(id) FROM protocolos WHERE status NOT IN (?, ?)
		 AND data_solicitacao <= DATE_SUB(CURDATE(), INTERVAL 15 DAY)`,
		model.StatusFinalizado, model.StatusConcluido).Scan(&stats.PendentesAntigos); err != nil {
		return nil, err
	}

	finArgs := append(append([]any{}, args...), model.StatusFinalizado, model.StatusConcluido)
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(id) FROM protocolos WHERE "+cond+" AND status IN (?, ?)",
		finArgs...).Scan(&stats.TotalFinalizados); err != nil {
		return nil, err
	}

	topQ := "SELECT tipo_requerimento, COUNT(id) AS total FROM protocolos WHERE " + cond +
		" AND tipo_requerimento != '' GROUP BY tipo_requerimento ORDER BY total DESC LIMIT 5"
	rows, err := r.db.QueryContext(ctx, topQ, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t TipoTotal
		if err := rows.Scan(&t.Tipo, &t.Total); err != nil {
			return nil, err
		}
		stats.TopTipos = append(stats.TopTipos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	statusQ := "SELECT status, COUNT(id) AS total FROM protocolos WHERE " + cond +
		" AND status != '' GROUP BY status"
	srows, err := r.db.QueryContext(ctx, statusQ, args...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var s StatusTotal
		if err := srows.Scan(&s.Status, &s.Total); err != nil {
			return nil, err
		}
		stats.StatusProtocolos = append(stats.StatusProtocolos, s)
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}

	evolucao, err := r.evolucao(ctx, o.EvolucaoPeriodo, o.EvolucaoAgrupamento)
	if err != nil {
		return nil, err
	}
	stats.EvolucaoProtocolos = evolucao
	return stats, nil
}

// evolucao buckets protocolo creation over the requested window.  The window
// and grouping are independent of the dashboard filters: the chart always
// shows the whole município.
func (r *ProtocoloRepo) evolucao(ctx context.Context, periodo, agrupamento string) ([]EvolucaoPonto, error) {
	groupBy := "DATE_FORMAT(data_solicitacao, '%Y-%m-%d')"
	if agrupamento == "month" {
		groupBy = "DATE_FORMAT(data_solicitacao, '%Y-%m')"
	}

	where := ""
	switch periodo {
	case "7d":
		where = "WHERE data_solicitacao >= DATE_SUB(CURDATE(), INTERVAL 7 DAY)"
	case "month":
		where = "WHERE DATE_FORMAT(data_solicitacao, '%Y-%m') = DATE_FORMAT(CURDATE(), '%Y-%m')"
	case "all":
		where = ""
	default: // "30d"
		where = "WHERE data_solicitacao >= DATE_SUB(CURDATE(), INTERVAL 30 DAY)"
	}

	q := "SELECT " + groupBy + " AS intervalo, COUNT(id) AS total FROM protocolos " + where +
		" GROUP BY intervalo ORDER BY intervalo ASC"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]EvolucaoPonto, 0)
	for rows.Next() {
		var p EvolucaoPonto
		if err := rows.Scan(&p.Intervalo, &p.Total); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
