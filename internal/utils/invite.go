package utils

import "crypto/rand"

const inviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const inviteCodeLength = 6

// NewInviteCode returns a short uppercase code suitable for sharing out of
// band. Codes are random enough to be practically unique; the database's
// unique index catches the unlikely collision.
func NewInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLength)

	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	for i, b := range buf {
		buf[i] = inviteAlphabet[int(b)%len(inviteAlphabet)]
	}

	return string(buf), nil
}
