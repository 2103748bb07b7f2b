package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// InviteTokenBytes - количество случайных байт в токене приглашения.
// В hex-представлении токен занимает вдвое больше символов.
const InviteTokenBytes = 32

// GenerateInviteToken генерирует случайный одноразовый токен приглашения
func GenerateInviteToken() (string, error) {
	raw := make([]byte, InviteTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
