package id

import (
	"crypto/md5"
	"io"
	"strings"

	"github.com/gofrs/uuid"
)

// GenTraceID random trace id
func GenTraceID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// TraceIDFrom deterministic trace id from parts
func TraceIDFrom(parts ...string) string {
	return UUIDFromString(strings.Join(parts, ":"))
}

// UUIDFromString md5 based uuid (version 3 layout) of text
func UUIDFromString(text string) string {
	h := md5.New()
	io.WriteString(h, text)
	sum := h.Sum(nil)
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	return uuid.FromBytesOrNil(sum).String()
}
