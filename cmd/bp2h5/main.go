// Command bp2h5 converts a BP record stream into an HDF5 file.
//
// Usage:
//
//	bp2h5 [flags] <source.bpion> <target.h5>
//	bp2h5 inspect [--query jsonpath] <source.bpion>
//	bp2h5 dump [--offset N] [--length N] <file>
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mammefen/bp2h5"
	"github.com/mammefen/bp2h5/target"
	"github.com/mammefen/bp2h5/target/h5target"
)

func main() {
	Execute()
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags convertFlags
	cmd := &cobra.Command{
		Use:           "bp2h5 [flags] <source> <target>",
		Short:         "Convert a BP record stream into an HDF5 file",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, &flags, args[0], args[1])
		},
	}
	flags.register(cmd.Flags())

	cmd.AddCommand(newInspectCmd(), newDumpCmd())
	return cmd
}

func runConvert(cmd *cobra.Command, flags *convertFlags, source, dest string) error {
	cfg, err := buildConfig(cmd.Flags(), flags)
	if err != nil {
		return err
	}
	if flags.gzip < 0 || flags.gzip > 9 {
		return fmt.Errorf("--gzip: level %d outside 0-9", flags.gzip)
	}

	store := bp2h5.NewStore()
	if err := store.Initialize(cfg); err != nil {
		return err
	}
	defer store.Release()

	var sinkOpts []h5target.Option
	if flags.gzip > 0 {
		sinkOpts = append(sinkOpts, h5target.WithGZIP(flags.gzip))
	}
	if flags.shuffle {
		sinkOpts = append(sinkOpts, h5target.WithShuffle())
	}

	c, err := bp2h5.New(store,
		bp2h5.WithLogger(log.New(cmd.ErrOrStderr(), "bp2h5: ", log.LstdFlags)),
		bp2h5.WithSinkFactory(func(path string) (target.Sink, error) {
			return h5target.Create(path, sinkOpts...)
		}),
	)
	if err != nil {
		return err
	}
	if err := c.Convert(source, dest); err != nil {
		return err
	}

	if cfg.Verbosity == bp2h5.Debug {
		st := c.Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records, %d groups, %d datasets, %d steps, %d attributes\n",
			dest, st.Records, st.Groups, st.Datasets, st.Steps, st.Attributes)
	}
	return nil
}
