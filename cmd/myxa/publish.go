package main

import (
	"github.com/gregorybchris/myxa/index"
	"github.com/gregorybchris/myxa/publish"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "publish",
		Short: "Run the publish gate against the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := loadPackage()
			if err != nil {
				return err
			}

			return withIndex(func(idx *index.Index) error {
				logger := logrus.NewEntry(log)
				if err := publish.Gate(pkg, idx, logger); err != nil {
					return err
				}
				cmd.Printf("published %s@%s\n", pkg.Info.Name, pkg.Info.Version)
				return nil
			})
		},
	})
}
