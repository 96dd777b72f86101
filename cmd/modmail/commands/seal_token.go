package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"modmail/internal/store"
)

func newSealTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seal-token",
		Short: "Encrypt the bot token into a passphrase-protected file",
		Long: "Prompts for the bot token and a passphrase and writes the sealed token to\n" +
			"--token-file. Point discord.token_file at the result and drop discord.token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(viper.GetString("discord.token_file"))
			if path == "" {
				return errors.New("--token-file is required")
			}

			token, err := promptSecret("Bot token")
			if err != nil {
				return fmt.Errorf("read token: %w", err)
			}
			pass := viper.GetString("discord.token_passphrase")
			if pass == "" {
				if pass, err = promptSecret("Passphrase"); err != nil {
					return fmt.Errorf("read passphrase: %w", err)
				}
				confirm, err := promptSecret("Repeat passphrase")
				if err != nil {
					return fmt.Errorf("read passphrase: %w", err)
				}
				if confirm != pass {
					return errors.New("passphrases do not match")
				}
			}

			if err := store.NewTokenFileStore(path).SaveToken(pass, token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token sealed to %s\n", path)
			return nil
		},
	}
}
