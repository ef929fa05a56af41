package utils // numero.go holds helpers for the display number of a protocolo ("NNNN/YYYY")

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// numeroPattern matches a well-formed display number: a four-digit sequential
// part, a slash and a four-digit year (e.g. "0042/2024").
var numeroPattern = regexp.MustCompile(`^\d{4}/\d{4}$`)

// ValidNumero reports whether numero has the canonical "NNNN/YYYY" shape.
func ValidNumero(numero string) bool {
	return numeroPattern.MatchString(numero)
}

// FormatNumero renders a sequential value and year as a display number,
// zero-padding the sequential part to four digits.
func FormatNumero(n, ano int) string {
	return fmt.Sprintf("%04d/%d", n, ano)
}

// ParseNumero extracts the sequential part of a display number.  It tolerates
// historical rows whose prefix is not numeric: those return ok=false and are
// expected to be skipped by callers rather than treated as an error.
func ParseNumero(numero string) (int, bool) {
	prefix, _, found := strings.Cut(numero, "/")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(prefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
