// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/steward/cmd/steward/cli"
	"github.com/bureau-foundation/steward/lib/bootstrap"
	"github.com/bureau-foundation/steward/lib/bridgeconf"
)

// Command returns the "steward config" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Summary: "Render and inspect the courier configuration",
		Description: `Work with courier.toml, the configuration document steward-init
materializes at boot. render repeats that materialization from the
current environment; show decodes the file that is in place.`,
		Usage: "steward config <subcommand> [flags]",
		Subcommands: []*cli.Command{
			renderCommand(),
			showCommand(),
		},
	}
}

func renderCommand() *cli.Command {
	var out string

	return &cli.Command{
		Name:    "render",
		Summary: "Materialize courier.toml from the environment",
		Description: `Render the courier configuration from the current STEWARD_* variables
and write it to the courier config home (or --out). This is the same
materialization steward-init performs at boot: the previous file has no
authority and is overwritten.`,
		Usage: "steward config render [flags]",
		Examples: []cli.Example{
			{
				Description: "Rewrite the live config after rotating the bot token",
				Command:     "steward config render",
			},
			{
				Description: "Render to a scratch path for inspection",
				Command:     "steward config render --out /tmp/courier.toml",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("render", pflag.ContinueOnError)
			flags.StringVar(&out, "out", "", "destination path (default: the courier config home)")
			return flags
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runRender(out)
		},
	}
}

func runRender(out string) error {
	env, err := bootstrap.FromEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	path := out
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		path = bridgeconf.DefaultPath(home)
	}

	source := bridgeconf.Params{ChatID: env.TelegramChatID}
	if env.TelegramBotToken != nil {
		source.BotToken = env.TelegramBotToken.String()
	}
	rendered := bridgeconf.Render(source)
	if err := bridgeconf.Write(path, rendered); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", path)
	if rendered.Transports.Telegram.BotToken == bridgeconf.PlaceholderBotToken {
		fmt.Println("bot token is the placeholder; set STEWARD_TELEGRAM_BOT_TOKEN and render again")
	}
	if rendered.Transports.Telegram.ChatID == 0 {
		fmt.Println("chat id is 0; set STEWARD_TELEGRAM_CHAT_ID to the numeric chat and render again")
	}
	return nil
}

func showCommand() *cli.Command {
	var jsonOut bool

	return &cli.Command{
		Name:    "show",
		Summary: "Print the effective courier configuration",
		Description: `Decode the courier configuration in place and print it with the bot
token masked. The numeric bot id before the colon stays visible so the
bot identity can be confirmed; the secret half never leaves the file.`,
		Usage: "steward config show [flags]",
		Examples: []cli.Example{
			{
				Description: "Inspect the live config",
				Command:     "steward config show",
			},
			{
				Description: "Machine-readable output",
				Command:     "steward config show --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("show", pflag.ContinueOnError)
			flags.BoolVar(&jsonOut, "json", false, "emit the config as JSON")
			return flags
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("resolving home directory: %w", err)
			}
			return runShow(bridgeconf.DefaultPath(home), jsonOut)
		},
	}
}

// showOutput is the JSON shape for config show.
type showOutput struct {
	Path   string            `json:"path"`
	Config bridgeconf.Config `json:"config"`
}

// loadMasked reads the config at path and masks the bot token for
// display.
func loadMasked(path string) (bridgeconf.Config, error) {
	loaded, err := bridgeconf.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return bridgeconf.Config{}, fmt.Errorf("no courier config at %s; run \"steward config render\"", path)
		}
		return bridgeconf.Config{}, err
	}
	loaded.Transports.Telegram.BotToken = maskToken(loaded.Transports.Telegram.BotToken)
	return loaded, nil
}

func runShow(path string, jsonOut bool) error {
	loaded, err := loadMasked(path)
	if err != nil {
		return err
	}

	if jsonOut {
		return cli.WriteJSON(showOutput{Path: path, Config: loaded})
	}

	// A comment keeps the output valid TOML while naming its source.
	fmt.Printf("# %s\n", path)
	if err := toml.NewEncoder(os.Stdout).Encode(loaded); err != nil {
		return fmt.Errorf("encoding courier config: %w", err)
	}
	return nil
}

// maskToken hides the secret portion of a Telegram bot token. The
// placeholder passes through so an unconfigured file is recognizable.
func maskToken(token string) string {
	if token == "" || token == bridgeconf.PlaceholderBotToken {
		return token
	}
	if id, _, found := strings.Cut(token, ":"); found {
		return id + ":***"
	}
	return "***"
}
