package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print Prometheus-style gateway metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		fmt.Print(a.metrics.RenderPrometheus())

		queueStats := a.worker.Stats()
		fmt.Printf("cpp_mcp_generation_queue_depth %d\n", queueStats.QueueDepth)
		fmt.Printf("cpp_mcp_generation_queue_capacity %d\n", queueStats.Capacity)
		fmt.Printf("cpp_mcp_generation_active %d\n", queueStats.Active)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
