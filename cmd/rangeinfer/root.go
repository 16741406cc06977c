package main

import (
	"fmt"
	"os"

	"honnef.co/go/rangeinfer/config"
	"honnef.co/go/rangeinfer/version"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const valueSyntax = `Values are written as lo..hi[,ulo..uhi][,bits][@widen]. The signed range
lo..hi may be a single number or '*' for all values. The unsigned range
defaults to all values. bits has one character per bit, most significant
first: '0' and '1' for known bits and '*' for unknown ones. widen sets the
widen counter. Results are printed in the same syntax unless --pretty is
given, so they can be passed to further commands. Separate arguments from flags with '--' when a value starts
with a minus sign.

Examples:
  rangeinfer --width 8 canon -- -5..5
  rangeinfer --width 8 join 0..100 '*,0..255,*******0'
  rangeinfer widen 0..20 0..10@2`

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rangeinfer",
		Short: "Canonicalize and combine integer value sets.",
		Long: `Canonicalize and combine integer value sets, each described by a signed
range, an unsigned range and known bits.

` + valueSyntax,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if getFlag(cmd, "verbose") {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().Int("width", 64, "bit width of values: 8, 16, 32 or 64")
	rootCmd.PersistentFlags().String("config", ".", "directory to start looking for rangeinfer.conf in")
	rootCmd.PersistentFlags().Bool("json", false, "print results as JSON")
	rootCmd.PersistentFlags().Bool("pretty", false, "print values in a more readable format that can't be parsed back")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")

	rootCmd.AddCommand(
		operationCmd("canon", "Canonicalize a value", cobra.ExactArgs(1)),
		operationCmd("meet", "Compute the smallest value containing all values", cobra.MinimumNArgs(2)),
		operationCmd("join", "Compute the intersection of values", cobra.MinimumNArgs(2)),
		operationCmd("widen", "Widen a new value relative to an old one, optionally bounded by a limit", cobra.RangeArgs(2, 3)),
		operationCmd("narrow", "Narrow an old value towards a new one", cobra.ExactArgs(2)),
		operationCmd("contains", "Report whether a value contains an integer", cobra.ExactArgs(2)),
		versionCmd(),
	)
	return rootCmd
}

func operationCmd(name, short string, args cobra.PositionalArgs) *cobra.Command {
	use := name + " values..."
	switch name {
	case "widen":
		use = name + " new old [limit]"
	case "narrow":
		use = name + " new old"
	case "contains":
		use = name + " value integer"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + ".\n\n" + valueSyntax,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			return dispatch(s, name, args, cmd.OutOrStdout())
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of this executable",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if getFlag(cmd, "verbose") {
				version.Verbose(cmd.OutOrStdout(), "rangeinfer")
			} else {
				version.Print(cmd.OutOrStdout(), "rangeinfer")
			}
		},
	}
}

// loadSettings combines the configuration files with the command line flags, which take precedence.
func loadSettings(cmd *cobra.Command) (settings, error) {
	dir, err := cmd.Flags().GetString("config")
	if err != nil {
		return settings{}, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return settings{}, fmt.Errorf("loading configuration: %w", err)
	}
	s := settings{
		width:  cfg.CLI.Width,
		json:   cfg.CLI.JSON,
		pretty: getFlag(cmd, "pretty"),
		policy: cfg.Policy(),
	}
	if cmd.Flags().Changed("width") {
		s.width = getInt(cmd, "width")
	}
	if cmd.Flags().Changed("json") {
		s.json = getFlag(cmd, "json")
	}
	log.Debugf("width %d, policy %+v", s.width, s.policy)
	return s, nil
}

func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

func getInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}
