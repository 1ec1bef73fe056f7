package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List operations known to the runtime registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		fmt.Println(a.dispatcher.ListOperations())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
