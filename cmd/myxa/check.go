package main

import (
	"github.com/gregorybchris/myxa/diff"
	"github.com/gregorybchris/myxa/index"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	var versionFlag string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Diff the working package against an indexed version; fail if Breaking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := loadPackage()
			if err != nil {
				return err
			}

			var d diff.Diff
			err = withIndex(func(idx *index.Index) error {
				old, err := resolveCompareVersion(idx, pkg.Info.Name, versionFlag)
				if err != nil {
					return err
				}
				d, err = diff.Compute(old, pkg)
				return err
			})
			if err != nil {
				return err
			}

			if d.IsBreaking() {
				for _, c := range d {
					if c.Category == diff.Breaking {
						cmd.Printf("Breaking %s: %s\n", c.Path, c.Description)
					}
				}
				return errors.New("breaking changes detected")
			}
			cmd.Println("no breaking changes")
			return nil
		},
	}
	cmd.Flags().StringVar(&versionFlag, "version", "", "indexed version to compare against (defaults to the latest published version)")
	rootCmd.AddCommand(cmd)
}
