package models

// AccessAuth is the scope carried by tokens issued on registration and login.
const AccessAuth = "auth"

// Token is one issued credential kept in a user's token collection.
type Token struct {
	Access string `json:"access" db:"access"`
	Token  string `json:"token" db:"token"`
}

// User represents a registered account
type User struct {
	ID           string  `json:"_id" db:"id"`
	Email        string  `json:"email" db:"email"`
	PasswordHash string  `json:"-" db:"password_hash"` // Hidden from JSON responses
	Tokens       []Token `json:"-" db:"-"`
}

// HasToken reports whether the collection holds token under the given scope.
func (u *User) HasToken(access, token string) bool {
	for _, t := range u.Tokens {
		if t.Access == access && t.Token == token {
			return true
		}
	}
	return false
}

// WithoutToken returns the token collection minus every entry equal to token.
func (u *User) WithoutToken(token string) []Token {
	kept := make([]Token, 0, len(u.Tokens))
	for _, t := range u.Tokens {
		if t.Token != token {
			kept = append(kept, t)
		}
	}
	return kept
}
