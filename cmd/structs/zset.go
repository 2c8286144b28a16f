package structs

import (
	"github.com/ValentinKolb/dStruct/cmd/util"
	"github.com/spf13/cobra"
)

var (
	// ZSetCommands represents the sorted set command group
	ZSetCommands = &cobra.Command{
		Use:   "zset",
		Short: "Sorted set operations",
	}

	zsetAddCmd = &cobra.Command{
		Use:   "add [name] [member] [score]",
		Short: "Sets the score of a member",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := parseFloat("score", args[2])
			if err != nil {
				return err
			}
			added, err := structures().ZSet().Add(args[0], args[1], score)
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"added": added})
		},
	}
	zsetScoreCmd = &cobra.Command{
		Use:   "score [name] [member]",
		Short: "Prints the score of a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, ok, err := structures().ZSet().Score(args[0], args[1])
			if err != nil {
				return err
			}
			r := util.Result{"found": ok}
			if ok {
				r["score"] = score
			}
			return printResult(cmd, r)
		},
	}
	zsetIncrCmd = &cobra.Command{
		Use:   "incr [name] [member] [delta]",
		Short: "Adds delta to the score of a member (missing members start at 0)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := parseFloat("delta", args[2])
			if err != nil {
				return err
			}
			score, err := structures().ZSet().IncrementBy(args[0], args[1], delta)
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"score": score})
		},
	}
	zsetRemoveCmd = &cobra.Command{
		Use:   "remove [name] [member]",
		Short: "Removes a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := structures().ZSet().Remove(args[0], args[1])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"removed": removed})
		},
	}
	zsetCardCmd = &cobra.Command{
		Use:   "card [name]",
		Short: "Prints the number of members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := structures().ZSet().Cardinality(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"cardinality": n})
		},
	}
	zsetRankCmd = &cobra.Command{
		Use:   "rank [name] [member]",
		Short: "Prints the position of a member in ascending score order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			z := structures().ZSet()
			rankFn := z.Rank
			if rev, _ := cmd.Flags().GetBool("rev"); rev {
				rankFn = z.RevRank
			}
			rank, ok, err := rankFn(args[0], args[1])
			if err != nil {
				return err
			}
			r := util.Result{"found": ok}
			if ok {
				r["rank"] = rank
			}
			return printResult(cmd, r)
		},
	}
	zsetRangeCmd = &cobra.Command{
		Use:   "range [name] [start] [stop]",
		Short: "Prints the members from position start to stop in ascending score order",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, stop, err := rangeArgs(args[1:])
			if err != nil {
				return err
			}
			entries, err := structures().ZSet().Range(args[0], start, stop)
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"entries": entries})
		},
	}
)

func init() {
	zsetRankCmd.Flags().Bool("rev", false, "Rank in descending score order")

	ZSetCommands.AddCommand(zsetAddCmd)
	ZSetCommands.AddCommand(zsetScoreCmd)
	ZSetCommands.AddCommand(zsetIncrCmd)
	ZSetCommands.AddCommand(zsetRemoveCmd)
	ZSetCommands.AddCommand(zsetCardCmd)
	ZSetCommands.AddCommand(zsetRankCmd)
	ZSetCommands.AddCommand(zsetRangeCmd)
}
