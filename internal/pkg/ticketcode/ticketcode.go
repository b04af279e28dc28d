// Package ticketcode generates the opaque identifiers printed on tickets:
// the human-readable ticket number and the QR seed consumed by the display
// layer. Both are generated once at purchase and never regenerated.
package ticketcode

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const qrSeedBytes = 32

// NewTicketNumber returns a unique ticket number of the form
// TKT-<eventID>-<8 hex chars>.
func NewTicketNumber(eventID uint) string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("ticketcode: crypto/rand failed: %v", err))
	}

	return fmt.Sprintf("TKT-%d-%s", eventID, strings.ToUpper(hex.EncodeToString(buf)))
}

// NewQRSeed returns a 64-character hex token from 32 random bytes.
func NewQRSeed() string {
	buf := make([]byte, qrSeedBytes)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("ticketcode: crypto/rand failed: %v", err))
	}

	return hex.EncodeToString(buf)
}
