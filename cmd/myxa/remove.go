package main

import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a dependency requirement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			pkg, err := loadPackage()
			if err != nil {
				return err
			}
			pkg.RemoveRequirement(name)
			if err := savePackage(pkg); err != nil {
				return err
			}
			cmd.Printf("removed requirement %s\n", name)
			return nil
		},
	})
}
