package store

// NewFastTokenFileStore uses cheap scrypt parameters so tests stay quick.
func NewFastTokenFileStore(path string) *TokenFileStore {
	return &TokenFileStore{path: path, kdf: kdfParams{N: 1 << 10, R: 8, P: 1}}
}
