package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lmfdb/latticeview/pkg/buildinfo"
	"github.com/lmfdb/latticeview/pkg/source"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Latticeview lays out, renders and explores subgroup lattice diagrams",
		Long: `Latticeview draws the subgroup lattice diagrams of the LMFDB. It reads a
diagram document from a JSON file or a configured store, lays each variant out
by level or by order, and renders it to PNG, Graphviz or an interactive
terminal or HTTP session.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if c.verbose() {
				installLogHooks(c.Logger)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default "+configPathHint()+")")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the response cache")
	c.src.register(root)

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.positionsCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}

// =============================================================================
// Source Flags
// =============================================================================

// sourceFlags override the [source] section of the config file.
type sourceFlags struct {
	dir             string
	mongoURI        string
	mongoDatabase   string
	mongoCollection string
	postgresDSN     string
	postgresTable   string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&f.dir, "input-dir", "", "directory of <ambient>.json documents")
	flags.StringVar(&f.mongoURI, "mongo-uri", "", "MongoDB connection URI")
	flags.StringVar(&f.mongoDatabase, "mongo-db", "", "MongoDB database (default "+source.DefaultMongoDatabase+")")
	flags.StringVar(&f.mongoCollection, "mongo-collection", "", "MongoDB collection (default "+source.DefaultMongoCollection+")")
	flags.StringVar(&f.postgresDSN, "postgres-dsn", "", "PostgreSQL connection string")
	flags.StringVar(&f.postgresTable, "postgres-table", "", "PostgreSQL table (default "+source.DefaultPostgresTable+")")
}

// apply copies the flags that were set onto cfg.
func (f *sourceFlags) apply(cfg *source.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Dir, f.dir)
	set(&cfg.MongoURI, f.mongoURI)
	set(&cfg.MongoDatabase, f.mongoDatabase)
	set(&cfg.MongoCollection, f.mongoCollection)
	set(&cfg.PostgresDSN, f.postgresDSN)
	set(&cfg.PostgresTable, f.postgresTable)
}
