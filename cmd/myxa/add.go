package main

import (
	"github.com/gregorybchris/myxa/version"
	"github.com/spf13/cobra"
)

func init() {
	var minVersionFlag string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a dependency requirement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			min := version.First
			if minVersionFlag != "" {
				v, err := version.Parse(minVersionFlag)
				if err != nil {
					return err
				}
				min = v
			}

			pkg, err := loadPackage()
			if err != nil {
				return err
			}
			pkg.AddRequirement(name, min)
			if err := savePackage(pkg); err != nil {
				return err
			}
			cmd.Printf("added requirement %s >= %s\n", name, min)
			return nil
		},
	}
	cmd.Flags().StringVar(&minVersionFlag, "version", "", "minimum version to require (defaults to 1.0)")
	rootCmd.AddCommand(cmd)
}
