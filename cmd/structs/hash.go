package structs

import (
	"github.com/ValentinKolb/dStruct/cmd/util"
	"github.com/spf13/cobra"
)

var (
	// HashCommands represents the hash command group
	HashCommands = &cobra.Command{
		Use:   "hash",
		Short: "Hash (field-value map) operations",
	}

	hashSetCmd = &cobra.Command{
		Use:   "set [name] [field] [value]",
		Short: "Sets the value of a field",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := structures().Hash().Set(args[0], args[1], []byte(args[2]))
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"created": created})
		},
	}
	hashSetNXCmd = &cobra.Command{
		Use:   "setnx [name] [field] [value]",
		Short: "Sets the value of a field only if it does not exist",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := structures().Hash().SetIfAbsent(args[0], args[1], []byte(args[2]))
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"created": created})
		},
	}
	hashGetCmd = &cobra.Command{
		Use:   "get [name] [field]",
		Short: "Reads the value of a field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok, err := structures().Hash().Get(args[0], args[1])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"found": ok, "value": v})
		},
	}
	hashExistsCmd = &cobra.Command{
		Use:   "exists [name] [field]",
		Short: "Checks if a field exists",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := structures().Hash().Exists(args[0], args[1])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"found": ok})
		},
	}
	hashDelCmd = &cobra.Command{
		Use:   "del [name] [field]",
		Short: "Deletes a field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := structures().Hash().Delete(args[0], args[1])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"removed": removed})
		},
	}
	hashLenCmd = &cobra.Command{
		Use:   "len [name]",
		Short: "Prints the number of fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := structures().Hash().Len(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"length": n})
		},
	}
	hashFieldsCmd = &cobra.Command{
		Use:   "fields [name]",
		Short: "Prints all field names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := structures().Hash().Fields(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"fields": fields})
		},
	}
	hashGetAllCmd = &cobra.Command{
		Use:   "getall [name]",
		Short: "Prints all fields with their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := structures().Hash().GetAll(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"fields": all})
		},
	}
)

func init() {
	HashCommands.AddCommand(hashSetCmd)
	HashCommands.AddCommand(hashSetNXCmd)
	HashCommands.AddCommand(hashGetCmd)
	HashCommands.AddCommand(hashExistsCmd)
	HashCommands.AddCommand(hashDelCmd)
	HashCommands.AddCommand(hashLenCmd)
	HashCommands.AddCommand(hashFieldsCmd)
	HashCommands.AddCommand(hashGetAllCmd)
}
