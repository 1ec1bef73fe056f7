package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var executeCmd = &cobra.Command{
	Use:   "execute <operation_id> <payload>",
	Short: "Execute a known operation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		fmt.Println(a.dispatcher.ExecuteOperation(args[0], args[1]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(executeCmd)
}
