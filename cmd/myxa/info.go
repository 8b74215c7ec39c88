package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/gregorybchris/myxa/model"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Render the working package's interface tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := loadPackage()
			if err != nil {
				return err
			}

			cmd.Printf("%s v%s\n", pkg.Info.Name, pkg.Info.Version)
			if pkg.Info.Description != "" {
				cmd.Printf("  %s\n", pkg.Info.Description)
			}
			renderModule(cmd, pkg.Root, 0)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
			if len(pkg.Requirements) > 0 {
				cmd.Println("requirements:")
				for _, name := range sortedDepReqNames(pkg.Requirements) {
					req := pkg.Requirements[name]
					fmt.Fprintf(w, "  %s\t>= %s\n", name, req.MinVersion)
				}
			}
			if len(pkg.Deps) > 0 {
				cmd.Println("locked deps:")
				for _, name := range sortedDepNames(pkg.Deps) {
					fmt.Fprintf(w, "  %s\t@%s\n", name, pkg.Deps[name].Version)
				}
			}
			return w.Flush()
		},
	})
}

func renderModule(cmd *cobra.Command, m *model.Module, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	for _, name := range m.SortedMemberNames() {
		cmd.Printf("%s%s: %s\n", indent, name, m.Members[name])
	}
	for _, name := range m.SortedModuleNames() {
		cmd.Printf("%smodule %s\n", indent, name)
		renderModule(cmd, m.Modules[name], depth+1)
	}
}

func sortedDepReqNames(m map[string]model.DepReq) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedDepNames(m map[string]model.Dep) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
