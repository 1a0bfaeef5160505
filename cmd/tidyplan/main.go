package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "tidyplan",
		Short:         "Preview where an organize pass would move every file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newPreviewCmd())
	root.AddCommand(newRootsCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tidyplan version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("tidyplan", version)
		},
	}
}
