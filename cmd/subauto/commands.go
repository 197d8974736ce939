package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subauto/internal/config"
	"subauto/internal/display"
	"subauto/internal/history"
)

func newSetAPIKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-api-key KEY",
		Short: "Store the Gemini API key used for translation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.NewKeyStore()
			if err != nil {
				return err
			}
			if err := store.SaveAPIKey(args[0]); err != nil {
				return err
			}
			fmt.Printf("Saved API key %s\n", config.MaskAPIKey(args[0]))
			return nil
		},
	}
}

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past batch runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := historyPath()
			if err != nil {
				return err
			}
			store, err := history.NewStore(path)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}
			fmt.Println(display.RenderHistory(runs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	return cmd
}
