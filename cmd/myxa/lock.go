package main

import (
	"sort"

	"github.com/gregorybchris/myxa/index"
	"github.com/gregorybchris/myxa/resolver"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "lock",
		Short: "Run the resolver and write a fresh deps lock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := loadPackage()
			if err != nil {
				return err
			}

			return withIndex(func(idx *index.Index) error {
				logger := logrus.NewEntry(log)
				locked, err := resolver.Lock(pkg, idx, logger)
				if err != nil {
					return err
				}
				pkg.Deps = locked

				names := make([]string, 0, len(locked))
				for name := range locked {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					cmd.Printf("locked %s@%s\n", name, locked[name].Version)
				}

				return savePackage(pkg)
			})
		},
	})
}
