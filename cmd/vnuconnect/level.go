package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iseven/vnu-connect-x/internal/progression"
)

var levelCmd = &cobra.Command{
	Use:   "level <xp>",
	Short: "Resolve an XP total to its level and progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		xp, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid xp %q: %w", args[0], err)
		}

		info, err := progression.ResolveLevel(xp)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "XP %d: level %d %s\n", xp, info.Level, info.Name)
		if info.Next == nil {
			fmt.Fprintln(out, "Max level reached (100%)")
			return nil
		}
		fmt.Fprintf(out, "%d%% towards level %d %s (%d XP to go)\n",
			info.Progress, info.Next.Level, info.Next.Name, info.Next.XPThreshold-xp)
		return nil
	},
}
