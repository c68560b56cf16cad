package domain

import (
	"time"

	"golang.org/x/oauth2"
)

// SessionSnapshot is the persisted form of a storefront session. Version
// counts successful writes and guards against lost updates.
type SessionSnapshot struct {
	ID             string        `json:"id"`
	Version        int64         `json:"version"`
	Cart           []CartLine    `json:"cart"`
	Token          *oauth2.Token `json:"token,omitempty"`
	IDToken        string        `json:"idToken,omitempty"`
	LoginState     string        `json:"loginState,omitempty"`
	LoginVerifier  string        `json:"loginVerifier,omitempty"`
	ReturnTo       string        `json:"returnTo,omitempty"`
	ReloadRequired bool          `json:"reloadRequired,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}
