package main

import (
	"os"

	"github.com/simonhull/wren/internal/commands"
)

func main() {
	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.NewCmd())
	rootCmd.AddCommand(commands.UpgradeCmd())
	rootCmd.AddCommand(commands.TemplatesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
