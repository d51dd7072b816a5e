package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	genderFlag string
	metricFlag string
	rootCmd    = &cobra.Command{
		Use:   "growthctl",
		Short: "Offline access to the growth reference curves",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&genderFlag, "gender", "g", "male", "reference population: male or female")
	rootCmd.PersistentFlags().StringVarP(&metricFlag, "metric", "m", "weight", "weight, height or head-circumference")

	ageCmd := &cobra.Command{
		Use:   "age DATE_OF_BIRTH OBSERVED",
		Short: "Age in fractional months between two YYYY-MM-DD dates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAge(args[0], args[1], cmd.OutOrStdout())
		},
	}
	rootCmd.AddCommand(ageCmd)

	percentilesCmd := &cobra.Command{
		Use:   "percentiles",
		Short: "Interpolated percentiles at an age",
		RunE: func(cmd *cobra.Command, args []string) error {
			age, err := cmd.Flags().GetFloat64("age")
			if err != nil {
				return err
			}
			return runPercentiles(genderFlag, metricFlag, age, cmd.OutOrStdout())
		},
	}
	percentilesCmd.Flags().Float64P("age", "a", 0, "age in months (required)")
	_ = percentilesCmd.MarkFlagRequired("age")
	rootCmd.AddCommand(percentilesCmd)

	curveCmd := &cobra.Command{
		Use:   "curve",
		Short: "Print the reference table for a gender and metric",
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return runCurve(genderFlag, metricFlag, asJSON, cmd.OutOrStdout())
		},
	}
	curveCmd.Flags().Bool("json", false, "print JSON instead of a table")
	rootCmd.AddCommand(curveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
