package interfaces

// TokenStore persists the bot token sealed under a passphrase.
type TokenStore interface {
	SaveToken(passphrase, token string) error
	LoadToken(passphrase string) (string, error)
}
