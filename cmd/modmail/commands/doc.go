// Package commands defines the modmail CLI.
//
// Commands
//
//   - run         Connect to Discord and relay messages until interrupted
//   - recover     Scan the forum and print the sessions it would recover
//   - seal-token  Encrypt the bot token into a passphrase-protected file
//
// # Configuration
//
// Settings come from flags, MODMAIL_* environment variables and an optional
// --config file, in that order of precedence. The environment names used by
// earlier deployments (DISCORD_TOKEN, GUILD_ID, FORUM_CHANNEL_ID, ROLE_ID)
// are still honoured.
package commands
