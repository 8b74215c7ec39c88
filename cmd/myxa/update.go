package main

import (
	"github.com/gregorybchris/myxa/index"
	"github.com/gregorybchris/myxa/update"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Run the update planner against the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := loadPackage()
			if err != nil {
				return err
			}

			return withIndex(func(idx *index.Index) error {
				logger := logrus.NewEntry(log)
				plan, err := update.Run(pkg, idx, logger)
				if err != nil {
					return err
				}

				for _, o := range plan.Upgraded {
					cmd.Printf("upgraded %s: %s -> %s\n", o.Name, o.From, o.To)
				}
				for _, o := range plan.Unchanged {
					cmd.Printf("unchanged %s@%s\n", o.Name, o.To)
				}
				for _, f := range plan.Failed {
					cmd.Printf("failed %s: %v\n", f.Name, f.Err)
				}

				return savePackage(pkg)
			})
		},
	})
}
