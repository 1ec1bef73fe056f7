package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var specsPattern string

var specsCmd = &cobra.Command{
	Use:   "specs",
	Short: "List specs already registered under the mappings root",
	Long: `specs globs the mappings root for previously registered spec
files. This is a supplemental discovery command — it reads the mappings
tree but does not affect registration or generation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		matches, err := a.service.ListSpecs(specsPattern)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Println("no specs registered")
			return nil
		}
		for _, m := range matches {
			fmt.Println(m)
		}
		return nil
	},
}

func init() {
	specsCmd.Flags().StringVar(&specsPattern, "pattern", "", "Glob pattern relative to the mappings root (default **/*.yaml)")
	rootCmd.AddCommand(specsCmd)
}
