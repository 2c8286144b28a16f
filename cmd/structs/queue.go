package structs

import (
	"github.com/ValentinKolb/dStruct/cmd/util"
	"github.com/spf13/cobra"
)

var (
	// QueueCommands represents the queue command group
	QueueCommands = &cobra.Command{
		Use:   "queue",
		Short: "FIFO queue operations",
	}

	queueInitCmd = &cobra.Command{
		Use:   "init [name]",
		Short: "Creates an empty queue if it does not exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := structures().Queue().Init(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"created": created})
		},
	}
	queueEnqueueCmd = &cobra.Command{
		Use:   "enqueue [name] [value...]",
		Short: "Appends values at the tail",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var n uint64
			for _, v := range args[1:] {
				var err error
				if n, err = structures().Queue().Enqueue(args[0], []byte(v)); err != nil {
					return err
				}
			}
			return printResult(cmd, util.Result{"size": n})
		},
	}
	queueDequeueCmd = &cobra.Command{
		Use:   "dequeue [name]",
		Short: "Removes and returns the element at the head",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok, err := structures().Queue().Dequeue(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"found": ok, "value": v})
		},
	}
	queuePeekCmd = &cobra.Command{
		Use:   "peek [name]",
		Short: "Returns the element at the head without removing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok, err := structures().Queue().Peek(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"found": ok, "value": v})
		},
	}
	queueSizeCmd = &cobra.Command{
		Use:   "size [name]",
		Short: "Prints the number of queued elements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := structures().Queue().Size(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, util.Result{"size": n})
		},
	}
)

func init() {
	QueueCommands.AddCommand(queueInitCmd)
	QueueCommands.AddCommand(queueEnqueueCmd)
	QueueCommands.AddCommand(queueDequeueCmd)
	QueueCommands.AddCommand(queuePeekCmd)
	QueueCommands.AddCommand(queueSizeCmd)
}
