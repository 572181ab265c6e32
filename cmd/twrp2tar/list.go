package twrp2tar

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/wal-g/tracelog"
	"github.com/wal-g/twrp2tar/internal"
)

const (
	ListShortDescription = "Prints the entries of a TWRP backup"
	PrettyFlag           = "pretty"
	JSONFlag             = "json"
)

var (
	listCmd = &cobra.Command{
		Use:   "list [key]",
		Short: ListShortDescription,
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			key, err := readKey(args)
			fatalOnError(err)
			limiter, err := internal.ConfigureLimiter()
			fatalOnError(err)
			input, err := openInput()
			fatalOnError(err)

			entries, err := internal.HandleList(context.Background(), input, key, limiter)
			closeInput(input)
			if err != nil && len(entries) > 0 {
				tracelog.WarningLogger.Printf("Listing stopped after %d entries\n", len(entries))
			}

			switch {
			case jsonOutput:
				tracelog.ErrorLogger.PrintOnError(internal.WriteAsJSON(entries, os.Stdout, pretty))
			case pretty:
				internal.WritePrettyEntryList(entries, os.Stdout)
			default:
				internal.WriteEntryList(entries, os.Stdout)
			}
			fatalOnError(err)
		},
	}
	pretty     = false
	jsonOutput = false
)

func init() {
	listCmd.Flags().BoolVar(&pretty, PrettyFlag, false, "Prints more readable output")
	listCmd.Flags().BoolVar(&jsonOutput, JSONFlag, false, "Prints output in json format")
}
