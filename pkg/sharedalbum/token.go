package sharedalbum

import (
	"fmt"
	"strings"
)

const base62CharSet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func base62ToInt(s string) (int, error) {
	n := 0
	for i := 0; i < len(s); i++ {
		v := strings.IndexByte(base62CharSet, s[i])
		if v < 0 {
			return 0, fmt.Errorf("%w: %q is not base-62", ErrInvalidToken, s[i])
		}
		n = n*62 + v
	}
	return n, nil
}

// Partition returns the server partition encoded in a share token.
func Partition(token string) (int, error) {
	digits := 2
	if strings.HasPrefix(token, "A") {
		digits = 1
	}
	if len(token) < digits+1 {
		return 0, fmt.Errorf("%w: %q is too short", ErrInvalidToken, token)
	}
	return base62ToInt(token[1 : 1+digits])
}

// BaseURL returns the sharedstreams API root for a share token.
func BaseURL(token string) (string, error) {
	p, err := Partition(token)
	if err != nil {
		return "", err
	}

	if i := strings.IndexByte(token, ';'); i >= 0 {
		token = token[:i]
	}

	return fmt.Sprintf("https://p%02d-sharedstreams.icloud.com/%s/sharedstreams/", p, token), nil
}

// TokenFromURL accepts a bare token or a share URL such as
// https://www.icloud.com/sharedalbum/#B0NJtdOXm9LvzZ and returns the token.
func TokenFromURL(s string) (string, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[i+1:]
	}
	if s == "" || strings.ContainsAny(s, "/?") {
		return "", fmt.Errorf("%w: no token in %q", ErrInvalidToken, s)
	}
	return s, nil
}
