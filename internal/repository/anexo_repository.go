package repository

import (
	"context"
	"database/sql"

	"github.com/dcastrolima/protocolo-municipal/internal/model"
)

// AnexoRepo persists attachment metadata; the bytes live in the object store
// under storage_path.
type AnexoRepo struct {
	db *sql.DB
}

func NewAnexoRepo(db *sql.DB) *AnexoRepo { return &AnexoRepo{db: db} }

// Create inserts one anexo row and returns its id.
func (r *AnexoRepo) Create(ctx context.Context, a *model.Anexo) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO anexos (protocolo_id, file_name, storage_path, file_size, mime_type) VALUES (?, ?, ?, ?, ?)`,
		a.ProtocoloID, a.FileName, a.StoragePath, a.FileSize, a.MimeType)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByProtocolo returns the anexos of a protocolo, newest first.  The
// storage path is not exposed here; downloads go through a presigned URL.
func (r *AnexoRepo) ListByProtocolo(ctx context.Context, protocoloID uint64) ([]model.Anexo, error) {
	const q = `SELECT id, protocolo_id, file_name, file_size,
		DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s')
		FROM anexos WHERE protocolo_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, protocoloID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Anexo, 0)
	for rows.Next() {
		var a model.Anexo
		if err := rows.Scan(&a.ID, &a.ProtocoloID, &a.FileName, &a.FileSize, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// StoragePathsByProtocolo returns the object keys of every anexo of a
// protocolo.  The protocolo delete flow reads these before removing the rows
// so the stored objects can be cleaned up afterwards.
func (r *AnexoRepo) StoragePathsByProtocolo(ctx context.Context, protocoloID uint64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT storage_path FROM anexos WHERE protocolo_id = ?`, protocoloID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		out = append(out, path)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one anexo with its storage path.
func (r *AnexoRepo) GetByID(ctx context.Context, id uint64) (*model.Anexo, error) {
	var a model.Anexo
	err := r.db.QueryRowContext(ctx,
		`SELECT id, protocolo_id, file_name, storage_path, file_size, mime_type FROM anexos WHERE id = ?`,
		id).Scan(&a.ID, &a.ProtocoloID, &a.FileName, &a.StoragePath, &a.FileSize, &a.MimeType)
	if err == sql.ErrNoRows {
		return nil, ErrAnexoNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete removes one anexo row.
func (r *AnexoRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM anexos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAnexoNotFound
	}
	return nil
}
