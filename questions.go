package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"teaminsight/internal/config"
	"teaminsight/internal/models"
)

func newQuestionsCmd(projectRoot *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Validate and list the question bank",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := file
			if path == "" {
				manager, err := config.Load(*projectRoot)
				if err != nil {
					return err
				}
				path = manager.Get().Assessment.QuestionsPath
			}

			bank, err := models.LoadQuestionBank(path)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tID\tAXIS\tLEFT\tRIGHT")
			for i, q := range bank.Questions {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, q.ID, q.Axis, q.LeftLabel, q.RightLabel)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d questions OK\n", bank.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "question bank YAML (defaults to the configured or embedded bank)")
	return cmd
}
