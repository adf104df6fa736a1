package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"netguard/pkg/agents"
	"netguard/pkg/capture"
	"netguard/pkg/features"
)

var (
	simAttack    string
	simIntensity string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Inject a simulated attack and run it through the pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		pipeline, _, extractor, err := buildPipeline(ctx, cfg, trainingBatches, logger)
		if err != nil {
			return err
		}

		sim := capture.NewSimulator(cfg.Detection.Seed, logger)
		packets := sim.Simulate(simAttack, simIntensity)
		if len(packets) == 0 {
			return fmt.Errorf("unknown attack type %q (known: %s)",
				simAttack, strings.Join(sim.AttackTypes(), ", "))
		}
		events := sim.SimulateEvents(simAttack, cfg.Capture.BatchSize/10)

		vec := extractor.Combined(packets, events)
		result, err := pipeline.Run(ctx, agents.Batch{
			Packets: packets,
			Events:  events,
			Vectors: []features.Vector{vec},
		})
		if err != nil {
			return err
		}

		fmt.Printf("status: %s\n", result.Status)
		for _, action := range result.Actions {
			fmt.Printf("\n[%s] %s (confidence %.2f)\n", action.Severity, action.AlertType, action.Confidence)
			fmt.Println(action.Explanation)
			fmt.Println("automated actions:")
			for _, a := range action.AutomatedActions {
				fmt.Printf("  - %s\n", a)
			}
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simAttack, "attack", "port_scan", "attack type to simulate")
	simulateCmd.Flags().StringVar(&simIntensity, "intensity", "medium", "attack intensity (low, medium, high)")
}
