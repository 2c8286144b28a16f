package structs

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ValentinKolb/dStruct/cmd/util"
	"github.com/ValentinKolb/dStruct/lib/ds"
	"github.com/spf13/cobra"
)

var backend *util.Backend

// Commands are the command groups of all data structures
var Commands = []*cobra.Command{
	KeyValueCommands,
	ListCommands,
	QueueCommands,
	SetCommands,
	ZSetCommands,
	HashCommands,
}

func init() {
	for _, c := range Commands {
		c.PersistentPreRunE = openBackend
		c.PersistentPostRunE = closeBackend
	}
}

// openBackend opens the configured store before a structure command runs
func openBackend(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	b, err := util.OpenBackend()
	if err != nil {
		return err
	}
	backend = b
	return nil
}

func closeBackend(*cobra.Command, []string) error {
	err := backend.Close()
	backend = nil
	return err
}

func structures() *ds.DS {
	return backend.DS
}

// printResult writes the result of cmd in the configured output format
func printResult(cmd *cobra.Command, r util.Result) error {
	return util.Print(cmd.OutOrStdout(), r)
}

func parseInt(name, s string) (int64, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, err)
	}
	return i, nil
}

func parseFloat(name, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", name, err)
	}
	if math.IsNaN(f) {
		return 0, fmt.Errorf("%s must be a number, got %s", name, s)
	}
	return f, nil
}

// rangeArgs reads the optional [start] [stop] arguments, defaulting to the whole range
func rangeArgs(args []string) (start, stop int64, err error) {
	start, stop = 0, -1
	if len(args) > 0 {
		if start, err = parseInt("start", args[0]); err != nil {
			return 0, 0, err
		}
	}
	if len(args) > 1 {
		if stop, err = parseInt("stop", args[1]); err != nil {
			return 0, 0, err
		}
	}
	return start, stop, nil
}
