package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iseven/vnu-connect-x/internal/models"
	"github.com/iseven/vnu-connect-x/internal/service/missions"
)

var pathwaysCmd = &cobra.Command{
	Use:   "pathways",
	Short: "List a learner's pathways with mission status",
	RunE: func(cmd *cobra.Command, args []string) error {
		learnerID, _ := cmd.Flags().GetUint("learner")

		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		pathways, err := a.missions.Pathways(cmd.Context(), learnerID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i := range pathways {
			printPathway(out, &pathways[i])
		}
		fmt.Fprintf(out, "%d pathways\n", len(pathways))
		return nil
	},
}

var enrollCmd = &cobra.Command{
	Use:   "enroll <pathway-key>",
	Short: "Enroll a learner in a pathway",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		learnerID, _ := cmd.Flags().GetUint("learner")

		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		pathway, err := a.missions.Enroll(cmd.Context(), learnerID, strings.TrimSpace(args[0]))
		if err != nil {
			return err
		}

		printPathway(cmd.OutOrStdout(), pathway)
		return nil
	},
}

func init() {
	pathwaysCmd.Flags().Uint("learner", 1, "Learner ID")
	enrollCmd.Flags().Uint("learner", 1, "Learner ID")
}

var statusMarks = map[models.MissionStatus]string{
	models.MissionLocked:     "[ ]",
	models.MissionUnlocked:   "[>]",
	models.MissionInProgress: "[~]",
	models.MissionSubmitted:  "[?]",
	models.MissionCompleted:  "[x]",
}

func printPathway(out io.Writer, p *models.Pathway) {
	progress := missions.Summarize(p)
	fmt.Fprintf(out, "#%d %s (%s) %d/%d missions, %d/%d XP, %d%%\n",
		p.ID, p.Title, p.Key, progress.Completed, progress.Total, progress.EarnedXP, progress.TotalXP, progress.Percent)
	for i := range p.Missions {
		m := &p.Missions[i]
		fmt.Fprintf(out, "  %s %d. %-40s %4d XP  %s\n", statusMarks[m.Status], i, m.Title, m.XP, m.Status)
	}
}
