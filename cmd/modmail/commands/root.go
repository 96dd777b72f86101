package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"modmail/internal/app"
)

const envPrefix = "MODMAIL"

// legacyEnv maps config keys to the bare environment names the bot read
// before it had a prefix.
var legacyEnv = map[string]string{
	"discord.token":            "DISCORD_TOKEN",
	"discord.guild_id":         "GUILD_ID",
	"modmail.forum_channel_id": "FORUM_CHANNEL_ID",
	"modmail.staff_role_id":    "ROLE_ID",
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "modmail",
		Short:        "Relay direct messages to a staff forum on Discord",
		SilenceUsage: true,
	}

	cobra.OnInitialize(initConfig)

	flags := cmd.PersistentFlags()
	flags.String("config", "", "Config file path (optional).")
	flags.String("log-level", "", "Logging level: debug|info|warn|error (default info).")
	flags.String("log-format", "text", "Logging format: text|json.")
	flags.Bool("log-add-source", false, "Include source file:line in logs.")
	flags.String("guild-id", "", "Guild the bot serves.")
	flags.String("forum-channel-id", "", "Forum channel holding modmail threads.")
	flags.String("staff-role-id", "", "Role pinged when a thread is opened.")
	flags.String("token-file", "", "Sealed bot token file (see seal-token).")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("logging.add_source", flags.Lookup("log-add-source"))
	_ = viper.BindPFlag("discord.guild_id", flags.Lookup("guild-id"))
	_ = viper.BindPFlag("modmail.forum_channel_id", flags.Lookup("forum-channel-id"))
	_ = viper.BindPFlag("modmail.staff_role_id", flags.Lookup("staff-role-id"))
	_ = viper.BindPFlag("discord.token_file", flags.Lookup("token-file"))

	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.add_source", false)
	app.SetDefaults(viper.GetViper())

	cmd.AddCommand(newRunCmd(), newRecoverCmd(), newSealTokenCmd())
	return cmd
}

func initConfig() {
	configureEnv(viper.GetViper())

	cfgFile := strings.TrimSpace(viper.GetString("config"))
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
	}
}

// configureEnv binds MODMAIL_* variables and the legacy names. A prefixed
// variable wins over its legacy name.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, prefixed, legacy)
	}
}
