package main

import (
	"github.com/gregorybchris/myxa/diff"
	"github.com/gregorybchris/myxa/index"
	"github.com/gregorybchris/myxa/model"
	"github.com/gregorybchris/myxa/version"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	var versionFlag string

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Report every change between the working package and an indexed version",
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

			if len(d) == 0 {
				cmd.Println("no changes")
				return nil
			}
			for _, c := range d {
				cmd.Printf("%s %s: %s\n", c.Category, c.Path, c.Description)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&versionFlag, "version", "", "indexed version to compare against (defaults to the latest published version)")
	rootCmd.AddCommand(cmd)
}

// resolveCompareVersion fetches the indexed package check/diff compare
// against: an explicit versionStr if given, else the latest published
// version of name.
func resolveCompareVersion(idx *index.Index, name, versionStr string) (*model.Package, error) {
	if versionStr == "" {
		return idx.Latest(name)
	}
	v, err := version.Parse(versionStr)
	if err != nil {
		return nil, err
	}
	versions, err := idx.Get(name)
	if err != nil {
		return nil, err
	}
	pkg, ok := versions[v]
	if !ok {
		return nil, errors.Wrapf(index.ErrNotFound, "%s@%s", name, v)
	}
	return pkg, nil
}
