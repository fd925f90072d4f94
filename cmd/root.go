package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "matt-stack",
	Short: "matt-stack - full-stack project tooling",
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
