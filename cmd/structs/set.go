package structs

import (
	"github.com/ValentinKolb/dStruct/cmd/util"
	"github.com/spf13/cobra"
)

var (
	// SetCommands represents the set command group
	SetCommands = &cobra.Command{
		Use:   "set",
		Short: "Unique set operations",
	}

	setAddCmd = &cobra.Command{
		Use:   "add [name] [member...]",
		Short: "Adds members, prints how many were new",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			added := 0
			for _, m := range args[1:] {
				ok, err := structures().Set().Add(args[0], m)
				if err != nil {
					return err
				}
				if ok {
					added++
				}
			}
			return printResult(cmd, util.Result{"added": added})
		},
	}
	setContainsCmd = &cobra.Command{
		Use:   "contains [name] [member]",
		Short: "Checks if a member is in the set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := structures().Set().Contains(args[0], args[1])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"found": ok})
		},
	}
	setRemoveCmd = &cobra.Command{
		Use:   "remove [name] [member...]",
		Short: "Removes members, prints how many existed",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed := 0
			for _, m := range args[1:] {
				ok, err := structures().Set().Remove(args[0], m)
				if err != nil {
					return err
				}
				if ok {
					removed++
				}
			}
			return printResult(cmd, util.Result{"removed": removed})
		},
	}
	setCardCmd = &cobra.Command{
		Use:   "card [name]",
		Short: "Prints the number of members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := structures().Set().Cardinality(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"cardinality": n})
		},
	}
	setMembersCmd = &cobra.Command{
		Use:   "members [name]",
		Short: "Prints all members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := structures().Set().Members(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"members": members})
		},
	}
	setInterCmd = &cobra.Command{
		Use:   "inter [a] [b]",
		Short: "Prints the members that are in both sets",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := structures().Set().Intersect(args[0], args[1])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"members": members})
		},
	}
	setUnionCmd = &cobra.Command{
		Use:   "union [a] [b]",
		Short: "Prints the members that are in either set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := structures().Set().Union(args[0], args[1])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"members": members})
		},
	}
	setDiffCmd = &cobra.Command{
		Use:   "diff [a] [b]",
		Short: "Prints the members of a that are not in b",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := structures().Set().Diff(args[0], args[1])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"members": members})
		},
	}
)

func init() {
	SetCommands.AddCommand(setAddCmd)
	SetCommands.AddCommand(setContainsCmd)
	SetCommands.AddCommand(setRemoveCmd)
	SetCommands.AddCommand(setCardCmd)
	SetCommands.AddCommand(setMembersCmd)
	SetCommands.AddCommand(setInterCmd)
	SetCommands.AddCommand(setUnionCmd)
	SetCommands.AddCommand(setDiffCmd)
}
