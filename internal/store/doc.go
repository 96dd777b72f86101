// Package store keeps the bot's secrets on disk.
//
// The bot token can be sealed under a passphrase so it never sits in a config
// file or the environment in clear text. The sealed file is a small JSON
// envelope: scrypt derives a key from the passphrase and a random salt, and
// ChaCha20-Poly1305 encrypts the token under it. Files are replaced
// atomically through a temp file and rename.
package store
