package domain

// Session is the token pair minted after a successful verification. It is
// owned by the client once issued; no revocation list is kept server-side.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // access-token lifetime, seconds
}
