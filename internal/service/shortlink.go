package service

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidShortLink = errors.New("invalid short link")

// EncodeID encodes id as its minimal big-endian bytes in URL-safe base64
// without padding.
func EncodeID(id uint) string {
	var buf [8]byte
	n := len(buf)
	for v := uint64(id); v > 0; v >>= 8 {
		n--
		buf[n] = byte(v)
	}
	if n == len(buf) {
		n--
	}
	return base64.RawURLEncoding.EncodeToString(buf[n:])
}

// DecodeID reverses EncodeID. Padded input is accepted.
func DecodeID(code string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(code, "="))
	if err != nil || len(raw) == 0 || len(raw) > 8 {
		return 0, ErrInvalidShortLink
	}
	var v uint64
	for _, b := range raw {
		v = v<<8 | uint64(b)
	}
	if v == 0 {
		return 0, ErrInvalidShortLink
	}
	return uint(v), nil
}
