package model

// Tier selects which dashboard variant an account sees.
type Tier string

const (
	TierProposal Tier = "proposal"
	TierProgress Tier = "progress"
)

// ClientAccount is one roster entry. PasswordHash never leaves the process.
type ClientAccount struct {
	ID           string `json:"id" yaml:"id"`
	Username     string `json:"username" yaml:"username"`
	PasswordHash string `json:"-" yaml:"password_hash"`
	Name         string `json:"name" yaml:"name"`
	Company      string `json:"company" yaml:"company"`
	Email        string `json:"email" yaml:"email"`
	Avatar       string `json:"avatar,omitempty" yaml:"avatar"`
	Tier         Tier   `json:"tier" yaml:"tier"`
}
