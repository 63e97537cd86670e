package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the mt4dash CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mt4dash version %s\n", version)
		fmt.Println("A terminal client for the MT4 account dashboard service")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
