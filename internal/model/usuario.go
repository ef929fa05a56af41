package model

// Tipos de usuário aceitos no claim "tipo" do JWT.
const (
	TipoAdmin = "admin"
	TipoComum = "comum"
)

// Usuario mirrors the 'usuarios' table.  Senha holds a bcrypt hash; legacy
// rows may still carry plain text, which the login flow migrates to a hash
// on first successful authentication.
type Usuario struct {
	ID     uint64 `json:"id"`
	Login  string `json:"login"`
	Senha  string `json:"-"`
	Tipo   string `json:"tipo"`
	Email  string `json:"email"`
	Nome   string `json:"nome"`
	CPF    string `json:"cpf"`
	Status string `json:"status"` // "ativo" | "inativo"
}
