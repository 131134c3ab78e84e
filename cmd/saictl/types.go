package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/cn-pmlabs/gosai/lib/config"
	"github.com/cn-pmlabs/gosai/sai"
)

var typesAttrs bool

// typesCmd lists the metadata catalog without touching the driver
var typesCmd = &cobra.Command{
	Use:   "types [OBJECT_TYPE...]",
	Short: "List object types and attribute types of the metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		catalog, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		types := catalog.ObjectTypes()
		if len(args) > 0 {
			types = types[:0]
			for _, a := range args {
				t, err := sai.ParseObjType(a)
				if err != nil {
					return err
				}
				types = append(types, t)
			}
		}

		out := cmd.OutOrStdout()
		for _, t := range types {
			attrs := catalog.ObjectAttrs(t)
			fmt.Fprintf(out, "%s %d\n", t.Symbol(), len(attrs))
			if !typesAttrs {
				continue
			}
			byName := make(map[string]sai.AttrMeta, len(attrs))
			for _, a := range attrs {
				byName[a.Name] = a
			}
			names := maps.Keys(byName)
			slices.Sort(names)
			for _, n := range names {
				fmt.Fprintf(out, "  %s %s\n", n, byName[n].RawType)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
	typesCmd.Flags().BoolVarP(&typesAttrs, "attrs", "a", false, "list attributes with their types")
}
