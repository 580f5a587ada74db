package validate

import (
	"errors"
	"fmt"
	"net/url"
)

const (
	MaxUsernameLen = 64
)

// Username accepts the characters Mastodon allows in local handles: ASCII letters, digits and underscores.
func Username(username string) error {
	if l := len(username); l == 0 {
		return errors.New("empty username")
	} else if l > MaxUsernameLen {
		return fmt.Errorf("username too long; max %d characters", MaxUsernameLen)
	}

	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return fmt.Errorf("invalid character %q in username", r)
		}
	}
	return nil
}

// IRI checks that s is an absolute http or https IRI.
func IRI(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, fmt.Errorf("unsupported scheme in %s", s)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host in %s", s)
	}
	return u, nil
}
