package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document number prefixes.
const (
	JobPrefix      = "JOB"
	EstimatePrefix = "EST"
	InvoicePrefix  = "INV"
	PaymentPrefix  = "PAY"
)

// newNumber returns PREFIX-YYMMDD-XXXXXX where the suffix is taken from a
// random UUID.
func newNumber(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return prefix + "-" + now.Format("060102") + "-" + suffix
}
