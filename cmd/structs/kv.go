package structs

import (
	"github.com/ValentinKolb/dStruct/cmd/util"
	"github.com/spf13/cobra"
)

var (
	// KeyValueCommands represents the plain key-value command group
	KeyValueCommands = &cobra.Command{
		Use:   "kv",
		Short: "Plain key-value operations",
	}

	kvSetCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := structures().KV().Set(args[0], []byte(args[1])); err != nil {
				return err
			}
			return printResult(cmd, util.Result{"set": true})
		},
	}
	kvSetNXCmd = &cobra.Command{
		Use:   "setnx [key] [value]",
		Short: "Sets the value for a key only if the key is not already set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := structures().KV().SetIfAbsent(args[0], []byte(args[1]))
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"created": created})
		},
	}
	kvGetCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok, err := structures().KV().Get(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"found": ok, "value": v})
		},
	}
	kvHasCmd = &cobra.Command{
		Use:     "has [key]",
		Aliases: []string{"exists"},
		Short:   "Checks if a key exists",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := structures().KV().Exists(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"found": ok})
		},
	}
	kvDelCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := structures().KV().Delete(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"removed": removed})
		},
	}
)

func init() {
	KeyValueCommands.AddCommand(kvSetCmd)
	KeyValueCommands.AddCommand(kvSetNXCmd)
	KeyValueCommands.AddCommand(kvGetCmd)
	KeyValueCommands.AddCommand(kvHasCmd)
	KeyValueCommands.AddCommand(kvDelCmd)
}
