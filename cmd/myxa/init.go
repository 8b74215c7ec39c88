package main

import (
	"github.com/gregorybchris/myxa/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "init <name> <description>",
		Short: "Write a fresh working package at version 1.0",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, description := args[0], args[1]
			if !model.ValidName(name) {
				return errors.Errorf("invalid package name %q", name)
			}

			pkg := model.Init(name, description)
			if err := savePackage(pkg); err != nil {
				return err
			}
			cmd.Printf("wrote %s (%s@%s)\n", packageFlag, name, pkg.Info.Version)
			return nil
		},
	})
}
