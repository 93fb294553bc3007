package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sweeney/yolodoro/internal/config"
	"github.com/sweeney/yolodoro/internal/logic"
)

const defaultPlanCycles = 8

func newPlanCommand(fv *flagValues) *cobra.Command {
	var cycles int

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the upcoming intervals without starting the timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), fv)
			if err != nil {
				return err
			}
			if cycles < 1 {
				return fmt.Errorf("%w: --cycles must be at least 1", config.ErrInvalid)
			}
			cmd.SilenceUsage = true

			fmt.Fprintln(cmd.OutOrStdout(), renderPlan(cfg.Durations(), cycles))
			return nil
		},
	}
	cmd.Flags().IntVarP(&cycles, "cycles", "n", defaultPlanCycles, "Number of intervals to show")
	return cmd
}

func renderPlan(d logic.Durations, n int) string {
	intervals := logic.NewCycle(d).Plan(n)

	rows := make([][]string, 0, len(intervals))
	var offset time.Duration
	for i, iv := range intervals {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			string(iv.Phase),
			fmt.Sprintf("%dm", logic.Minutes(iv.Duration)),
			formatOffset(offset),
		})
		offset += iv.Duration
	}

	return renderTable(
		[]string{"#", "Phase", "Length", "Starts"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight},
	)
}

// formatOffset renders d as +H:MM.
func formatOffset(d time.Duration) string {
	m := int64(d / time.Minute)
	return fmt.Sprintf("+%d:%02d", m/60, m%60)
}
