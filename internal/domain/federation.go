package domain

import (
	"net/url"
	"time"
)

// PublicGroup is the recipient marker meaning "visible to anyone".
const PublicGroup = "https://www.w3.org/ns/activitystreams#Public"

var Public, _ = url.Parse(PublicGroup)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
