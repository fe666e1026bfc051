package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gridgen/internal/dataset"
	"gridgen/internal/vocab"
)

// statsCmd summarizes a corpus without generating anything
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print per-split example counts for a corpus",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, err := dataset.Load(datasetPath)
	if err != nil {
		return err
	}

	fmt.Printf("grid size: %d\n", d.GridSize)
	total := 0
	for _, split := range d.Splits() {
		n := len(d.Examples[split])
		total += n
		dir, ok := vocab.SplitDirNames[split]
		if !ok {
			dir = split
		}
		fmt.Printf("  %-20s %8d  (dir %s)\n", split, n, dir)
	}
	fmt.Printf("total: %d\n", total)
	return nil
}
