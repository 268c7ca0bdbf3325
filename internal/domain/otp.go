package domain

import "time"

// Channel is how a one-time code reaches the voter
type Channel string

const (
	ChannelEmail  Channel = "email"
	ChannelMobile Channel = "mobile"
)

// Valid reports whether c is a known channel
func (c Channel) Valid() bool {
	return c == ChannelEmail || c == ChannelMobile
}

// Challenge is the pending one-time code for a browser session.
// At most one exists per session; resending replaces it.
type Challenge struct {
	Code     string    `json:"code"`
	Contact  string    `json:"contact"`
	Channel  Channel   `json:"channel"`
	IssuedAt time.Time `json:"issued_at"`
}

// OTPLength is the number of digits in a one-time code
const OTPLength = 6
