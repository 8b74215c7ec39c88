// Command myxa is the CLI for the myxa structural package manager:
// the one place in the system that touches a filesystem, an
// environment variable, or a terminal. The core packages (model,
// diff, index, resolver, publish, update) are pure and never touch
// the outside world directly.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

var (
	indexFlag   string
	packageFlag string
)

var rootCmd = &cobra.Command{
	Use:           "myxa",
	Short:         "myxa: a package manager built on structural compatibility checking",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&indexFlag, "index", "",
		"path to the index file (defaults to $MYXA_INDEX, then ./myxa-index.json)")
	rootCmd.PersistentFlags().StringVar(&packageFlag, "file", defaultPackagePath,
		"path to the working package file")

	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "myxa: error: %v\n", err)
		os.Exit(1)
	}
}
