package model

// Anexo mirrors the 'anexos' table.  The file bytes themselves live in the
// object store under StoragePath; the row only carries metadata.
type Anexo struct {
	ID          uint64 `json:"id"`
	ProtocoloID uint64 `json:"protocolo_id"`
	FileName    string `json:"file_name"`
	StoragePath string `json:"storage_path,omitempty"`
	FileSize    int64  `json:"file_size"`
	MimeType    string `json:"mime_type,omitempty"`
	CreatedAt   string `json:"created_at"`
}
