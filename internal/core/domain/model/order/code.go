package order

import (
	"strings"

	"oshxona/internal/core/domain/model/kernel"
)

// CodeFromUUID derives the human-facing order code from the order's ID.
// Staff read these codes aloud, so they are short and uppercase.
func CodeFromUUID(id kernel.UUID) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return "ORD-" + strings.ToUpper(hex[:8])
}
