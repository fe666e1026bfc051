package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"gridgen/internal/dataset"
	"gridgen/internal/vocab"
)

// vocabCmd prints the dictionaries a generation run would persist
var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Print the token dictionaries derived from a corpus",
	RunE:  runVocab,
}

func runVocab(cmd *cobra.Command, args []string) error {
	d, err := dataset.Load(datasetPath)
	if err != nil {
		return err
	}

	voc := vocab.Default()
	dict := dataset.BuildDictionary(d, voc.ColorAdjectives(), voc.Nouns())

	fmt.Println("input words:")
	printWordIDs(dict.InputWordToID)
	fmt.Println("action words:")
	printWordIDs(dict.ActionWordToID)
	fmt.Printf("colors: %v\n", dict.Colors)
	fmt.Printf("nouns: %v\n", dict.Nouns)
	return nil
}

func printWordIDs(ids map[string]int) {
	words := make([]string, 0, len(ids))
	for w := range ids {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool { return ids[words[i]] < ids[words[j]] })
	for _, w := range words {
		fmt.Printf("  %3d  %s\n", ids[w], w)
	}
}
