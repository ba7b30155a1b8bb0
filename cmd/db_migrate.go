package cmd

import (
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"

	// register migrations of the stores
	_ "lendpool/store/pool"
	_ "lendpool/store/position"
	_ "lendpool/store/transaction"
)

// command for migrating database
var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Aliases: []string{"setdb"},
	Short:   "migrate pools, positions and transactions tables",
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.FromContext(cmd.Context())

		database := provideDatabase()
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			cmd.PrintErrln("migrate database error:", err)
			return
		}

		log.Infoln("database migrated")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
