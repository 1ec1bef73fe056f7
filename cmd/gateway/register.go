package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <version> <spec_path>",
	Short: "Register an OpenAPI spec under a version",
	Long: `register validates the given spec file, persists it under the
mappings root for <version>, waits for client kit generation to finish, and
reports the outcome.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		result := a.service.RegisterSpec(args[0], args[1])
		if !result.OK {
			return fmt.Errorf("%s", result.Message)
		}

		a.worker.WaitForIdle()
		fmt.Printf("%s\nstored at: %s\n", result.Message, result.StoredPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
