package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaibachar/cpp-mcp-gateway/internal/fsutil"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Report writable-directory probes and registry/queue health",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		mappingsOK, mappingsMsg := fsutil.IsWritableDirectory(a.cfg.MappingsRoot)
		clientKitOK, clientKitMsg := fsutil.IsWritableDirectory(a.cfg.ClientKitRoot)

		fmt.Printf("mappings root writable: %t (%s)\n", mappingsOK, mappingsMsg)
		fmt.Printf("client kit root writable: %t (%s)\n", clientKitOK, clientKitMsg)

		regStats := a.reg.Stats()
		queueStats := a.worker.Stats()

		fmt.Printf("operations indexed: %d\n", regStats.OperationCount)
		fmt.Printf("last registry load latency: %dms\n", regStats.LastLoadLatencyMs)
		fmt.Printf("generation queue depth: %d/%d\n", queueStats.QueueDepth, queueStats.Capacity)
		fmt.Printf("generation worker running: %t\n", queueStats.Running)

		if !mappingsOK || !clientKitOK {
			return fmt.Errorf("health check failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
