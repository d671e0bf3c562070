package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpggio/hygrotrack/internal/config"
	"github.com/rpggio/hygrotrack/internal/domain/activity"
	"github.com/rpggio/hygrotrack/internal/domain/record"
	"github.com/rpggio/hygrotrack/internal/domain/standard"
	"github.com/rpggio/hygrotrack/internal/sqlite"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	dbPath        string
	standardsPath string
	tenantID      string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "hygroctl",
		Short: "Operate a HygroTrack database",
		Long: "Inspect fabric standards, classify readings, review inspection records and " +
			"issue API keys against the database the HygroTrack server uses.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cmd.Flags().Changed("db") {
				opts.dbPath = cfg.DB.Path
			}
			if !cmd.Flags().Changed("standards") {
				opts.standardsPath = cfg.Standards.Path
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (default from HYGRO_DB_PATH or config)")
	root.PersistentFlags().StringVar(&opts.standardsPath, "standards", "", "fabric standards YAML file (built-in table when unset)")
	root.PersistentFlags().StringVar(&opts.tenantID, "tenant", "default", "tenant to operate on")

	root.AddCommand(
		newStandardsCmd(opts),
		newClassifyCmd(opts),
		newRecordsCmd(opts),
		newDashboardCmd(opts),
		newAPIKeyCmd(opts),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (o *options) registry() (*standard.Registry, error) {
	if o.standardsPath == "" {
		return standard.Default(), nil
	}
	return standard.LoadFile(o.standardsPath)
}

type store struct {
	db       *sqlite.DB
	records  *record.Service
	activity *activity.Service
	apiKeys  *sqlite.APIKeyRepository
}

func (o *options) open() (*store, error) {
	reg, err := o.registry()
	if err != nil {
		return nil, err
	}
	db, err := sqlite.New(o.dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", o.dbPath, err)
	}

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	return &store{
		db:       db,
		records:  record.NewService(sqlite.NewRecordRepository(db), activitySvc, reg, nil),
		activity: activitySvc,
		apiKeys:  sqlite.NewAPIKeyRepository(db),
	}, nil
}

func (s *store) Close() error {
	return s.db.Close()
}
