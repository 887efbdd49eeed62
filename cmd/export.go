package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wiki_stats/internal/db"
	"wiki_stats/internal/export"
)

var (
	exportArchive string
	exportSource  string
	shardSize     int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Pack crawled documents from MongoDB into a zip of JSON shards",
	Long: `Reads the documents collection written by the spider and writes an archive
of folder/wiki_NNNNN.json shards suitable as wikistats input. Documents without
stored text get it extracted from their stored HTML.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportArchive, "archive", "a", "", "archive to write")
	exportCmd.Flags().StringVar(&exportSource, "source", "", "only export documents of this source")
	exportCmd.Flags().IntVar(&shardSize, "shard-size", 0, "articles per shard")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("archive") {
		cfg.Export.Archive = exportArchive
	}
	if flags.Changed("source") {
		cfg.Export.Source = exportSource
	}
	if flags.Changed("shard-size") {
		cfg.Export.ShardSize = shardSize
	}
	if err := cfg.ValidateExport(); err != nil {
		return err
	}

	mongoDB, err := db.NewMongoDB(cmd.Context(), cfg.DB)
	if err != nil {
		return err
	}
	defer mongoDB.Close()

	total, err := mongoDB.CountDocuments(cmd.Context(), cfg.Export.Source)
	if err != nil {
		return err
	}
	logger.Info("Exporting documents",
		zap.String("database", cfg.DB.Database),
		zap.String("source", cfg.Export.Source),
		zap.Int64("documents", total))

	_, err = export.NewExporter(cfg.Export, logger).Export(cmd.Context(), mongoDB)
	return err
}
