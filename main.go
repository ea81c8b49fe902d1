package main

import (
	"os"

	"github.com/mattsolo1/grove-core/cli"
	"github.com/mattsolo1/grove-sandbox/cmd"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"sandbox",
		"Character conversation sandbox",
	)
	rootCmd.Long = `Bootstrap a cast of fantasy characters and watch them talk, or join in.

Running 'sandbox' with no subcommand opens the interactive sandbox.`
	rootCmd.RunE = cmd.RunChat

	cmd.AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(cmd.NewChatCmd())
	rootCmd.AddCommand(cmd.NewInitCmd())
	rootCmd.AddCommand(cmd.NewContinueCmd())
	rootCmd.AddCommand(cmd.NewConfigCmd())
	rootCmd.AddCommand(cmd.NewFakeBackendCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
