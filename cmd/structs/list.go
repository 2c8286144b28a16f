package structs

import (
	"github.com/ValentinKolb/dStruct/cmd/util"
	"github.com/spf13/cobra"
)

var (
	// ListCommands represents the list command group
	ListCommands = &cobra.Command{
		Use:   "list",
		Short: "Ordered list operations",
	}

	listPushLeftCmd = &cobra.Command{
		Use:   "push-left [name] [value...]",
		Short: "Inserts values at the head, the last value ends up first",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var n int64
			for _, v := range args[1:] {
				var err error
				if n, err = structures().List().PushLeft(args[0], []byte(v)); err != nil {
					return err
				}
			}
			return printResult(cmd, util.Result{"length": n})
		},
	}
	listPushRightCmd = &cobra.Command{
		Use:   "push-right [name] [value...]",
		Short: "Appends values at the tail",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var n int64
			for _, v := range args[1:] {
				var err error
				if n, err = structures().List().PushRight(args[0], []byte(v)); err != nil {
					return err
				}
			}
			return printResult(cmd, util.Result{"length": n})
		},
	}
	listIndexCmd = &cobra.Command{
		Use:   "index [name] [index]",
		Short: "Reads the element at an index (negative indices count from the tail)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseInt("index", args[1])
			if err != nil {
				return err
			}
			v, ok, err := structures().List().Index(args[0], i)
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"found": ok, "value": v})
		},
	}
	listPopLeftCmd = &cobra.Command{
		Use:   "pop-left [name]",
		Short: "Removes and returns the first element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok, err := structures().List().PopLeft(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"found": ok, "value": v})
		},
	}
	listPopRightCmd = &cobra.Command{
		Use:   "pop-right [name]",
		Short: "Removes and returns the last element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok, err := structures().List().PopRight(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"found": ok, "value": v})
		},
	}
	listSizeCmd = &cobra.Command{
		Use:   "size [name]",
		Short: "Prints the length of a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := structures().List().Size(args[0])
			if err != nil {
				return err
			}
			r := util.Result{"length": n}
			if probe, _ := cmd.Flags().GetBool("probe"); probe {
				if r["probed"], err = structures().List().ProbeSize(args[0]); err != nil {
					return err
				}
			}
			return printResult(cmd, r)
		},
	}
	listRangeCmd = &cobra.Command{
		Use:   "range [name] [start] [stop]",
		Short: "Prints the elements from start to stop (inclusive, default: all)",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, stop, err := rangeArgs(args[1:])
			if err != nil {
				return err
			}
			values, err := structures().List().Range(args[0], start, stop)
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"values": values})
		},
	}
	listSetCmd = &cobra.Command{
		Use:   "set [name] [index] [value]",
		Short: "Overwrites the element at an index",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseInt("index", args[1])
			if err != nil {
				return err
			}
			ok, err := structures().List().Set(args[0], i, []byte(args[2]))
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"updated": ok})
		},
	}
)

func init() {
	listSizeCmd.Flags().Bool("probe", false, "Also count the elements by probing the indices")

	ListCommands.AddCommand(listPushLeftCmd)
	ListCommands.AddCommand(listPushRightCmd)
	ListCommands.AddCommand(listIndexCmd)
	ListCommands.AddCommand(listPopLeftCmd)
	ListCommands.AddCommand(listPopRightCmd)
	ListCommands.AddCommand(listSizeCmd)
	ListCommands.AddCommand(listRangeCmd)
	ListCommands.AddCommand(listSetCmd)
}
