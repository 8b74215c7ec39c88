package main

import (
	"fmt"
	"text/tabwriter"

	myxaindex "github.com/gregorybchris/myxa/index"
	"github.com/spf13/cobra"
)

func init() {
	var (
		packageFilter string
		noVersions    bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "List index contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withIndex(func(idx *myxaindex.Index) error {
				names := idx.PackageNames()
				if packageFilter != "" {
					filtered := names[:0]
					for _, n := range names {
						if n == packageFilter {
							filtered = append(filtered, n)
						}
					}
					names = filtered
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
				defer w.Flush()
				for _, name := range names {
					if noVersions {
						fmt.Fprintf(w, "%s\n", name)
						continue
					}
					versions, err := idx.Versions(name)
					if err != nil {
						return err
					}
					for _, v := range versions {
						fmt.Fprintf(w, "%s\t%s\n", name, v)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&packageFilter, "package", "", "only list this package name")
	cmd.Flags().BoolVar(&noVersions, "no-versions", false, "list package names only, without versions")
	rootCmd.AddCommand(cmd)
}
