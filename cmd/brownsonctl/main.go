// brownsonctl tareas de operación sobre la base de datos de la tienda.
//
// Uso:
//
//	brownsonctl migrate
//	brownsonctl create-admin --email admin@brownson.com --password secreto123 --name "Admin"
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "brownsonctl",
	Short:         "Brownson store administration CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(newCreateAdminCmd())
}
