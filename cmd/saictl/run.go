package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cn-pmlabs/gosai/lib/log"
	"github.com/cn-pmlabs/gosai/sai"
)

var (
	runInitSwitch         bool
	runSkipNotSupported   bool
	runSkipNotImplemented bool
)

// runCmd executes command scripts
var runCmd = &cobra.Command{
	Use:   "run script.yaml...",
	Short: "Run SAI command scripts",
	Long: `Run executes YAML (or JSON) lists of commands:

  - action: create
    type: SAI_OBJECT_TYPE_VLAN
    key: $vlan10
    attributes: [SAI_VLAN_ATTR_VLAN_ID, "10"]

Values starting with '$' name oids created earlier in the run; $SWITCH_ID
is the switch created at start.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := openSai(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		runner := sai.NewRunner(s, nil)
		if runInitSwitch {
			status, err := runner.InitSwitch(ctx, []string{"SAI_SWITCH_ATTR_INIT_SWITCH", "true"})
			if err != nil {
				return err
			}
			if err := sai.AssertStatusSuccess(status, false, false); err != nil {
				return fmt.Errorf("init switch: %w", err)
			}
		}

		for _, path := range args {
			commands, err := readScript(path)
			if err != nil {
				return err
			}
			for i, c := range commands {
				res, err := runner.Run(ctx, c)
				if err != nil {
					return fmt.Errorf("%s #%d: %w", path, i, err)
				}
				err = sai.AssertStatusSuccess(res.Status, runSkipNotSupported, runSkipNotImplemented)
				switch {
				case errors.Is(err, sai.ErrSkip):
					log.Warning("%s %s #%d %s %s: %v\n", log.ModuleSAI, path, i, c.Action, c.Type, err)
				case err != nil && res.Failures != nil:
					return fmt.Errorf("%s #%d %s %s: %w", path, i, c.Action, c.Type, res.Failures)
				case err != nil:
					return fmt.Errorf("%s #%d %s %s: %w", path, i, c.Action, c.Type, err)
				}
				printResult(cmd, c, res)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runInitSwitch, "init-switch", true, "create the switch object before running")
	runCmd.Flags().BoolVar(&runSkipNotSupported, "skip-not-supported", false, "treat NOT_SUPPORTED statuses as skips")
	runCmd.Flags().BoolVar(&runSkipNotImplemented, "skip-not-implemented", false, "treat NOT_IMPLEMENTED statuses as skips")
}

func readScript(path string) ([]sai.Command, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var commands []sai.Command
	if err := yaml.Unmarshal(b, &commands); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return commands, nil
}

func printResult(cmd *cobra.Command, c sai.Command, res *sai.CommandResult) {
	out := cmd.OutOrStdout()
	switch {
	case res.Data != nil:
		fmt.Fprintf(out, "%s %s %s %s\n", c.Action, c.Type, res.Status, res.Data.ToJSON())
	case res.Oid != "":
		fmt.Fprintf(out, "%s %s %s %s\n", c.Action, c.Type, res.Oid, res.Status)
	default:
		fmt.Fprintf(out, "%s %s %s\n", c.Action, c.Type, res.Status)
	}
}
