package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/skyfit/internal/funcs"
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List available function types and their parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range funcs.Names() {
			fn, err := funcs.New(name)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", name, strings.Join(fn.ParamNames(), ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(functionsCmd)
}
