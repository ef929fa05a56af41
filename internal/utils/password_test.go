package utils

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("segredo123", 4) // low cost keeps the test fast
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !IsBcryptHash(hash) {
		t.Fatalf("hash %q not recognized as bcrypt", hash)
	}
	if !VerifyPassword(hash, "segredo123") {
		t.Error("correct senha rejected")
	}
	if VerifyPassword(hash, "errada") {
		t.Error("wrong senha accepted")
	}
}

func TestIsBcryptHash(t *testing.T) {
	cases := []struct {
		stored string
		want   bool
	}{
		{"$2a$10$abcdefghijklmnopqrstuv", true},
		{"$2b$12$abcdefghijklmnopqrstuv", true},
		{"$2y$10$abcdefghijklmnopqrstuv", true},
		{"senha-em-texto-plano", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsBcryptHash(c.stored); got != c.want {
			t.Errorf("IsBcryptHash(%q) = %v, want %v", c.stored, got, c.want)
		}
	}
}

func TestHashRefreshRawStable(t *testing.T) {
	a := HashRefreshRaw("token")
	b := HashRefreshRaw("token")
	if a != b {
		t.Error("hashing is not deterministic")
	}
	if a == HashRefreshRaw("outro") {
		t.Error("distinct tokens collide")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}
