package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cn-pmlabs/gosai/sai"
)

var (
	getOid  string
	getType string
	getKey  map[string]string
)

// getCmd reads attributes, sizing list buffers with the probe engine
var getCmd = &cobra.Command{
	Use:   "get SAI_<TYPE>_ATTR_<NAME>...",
	Short: "Read attributes of one object",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := sai.OidAddress(getOid)
		if getType != "" || len(getKey) > 0 {
			objType, err := sai.ParseObjType(getType)
			if err != nil {
				return err
			}
			addr = sai.Address{Oid: getOid, Type: objType, Key: getKey}
		}
		if _, err := addr.Resolve(); err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		s, err := openSai(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		var failed error
		for _, attr := range args {
			status, data, err := s.GetAttr(ctx, addr, attr)
			if err != nil {
				return err
			}
			if !status.Success() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", attr, status)
				failed = errors.Join(failed, fmt.Errorf("%s: %s", attr, status))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", attr, data.Value(0))
		}
		return failed
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringVar(&getOid, "oid", "", "object id, oid:0x...")
	getCmd.Flags().StringVar(&getType, "type", "", "object type of an entry object")
	getCmd.Flags().StringToStringVar(&getKey, "key", nil, "entry key fields, field=value,...")
}
