package dto

// GoogleLoginResponse is returned by GET /users/google/login. State is
// also set in the oauth_state cookie and must come back on the callback.
type GoogleLoginResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// GoogleUserInfo is the part of the Google profile sign-in relies on. Only
// verified addresses are mapped to local users.
type GoogleUserInfo struct {
	Email    string
	Verified bool
}
