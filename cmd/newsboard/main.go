package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"newsboard/internal/archive"
	"newsboard/internal/config"
	"newsboard/internal/feed"
	"newsboard/internal/ingest"
	"newsboard/internal/sentiment"
	"newsboard/internal/server"
	"newsboard/internal/store"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "newsboard",
	Short:   "News sentiment dashboard",
	Long:    "Newsboard ingests headlines from NewsAPI into S3 and Postgres and serves a sentiment-tagged dashboard.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		if cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(articlesCmd)
	rootCmd.AddCommand(statusCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("newsboard", version)
	},
}

// --- ingest command ---

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one ingestion pass: fetch, archive, persist",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var awsOpts []func(*awsconfig.LoadOptions) error
		if cfg.AWS.Region != "" {
			awsOpts = append(awsOpts, awsconfig.WithRegion(cfg.AWS.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
		if err != nil {
			return fmt.Errorf("loading AWS config: %w", err)
		}

		client := feed.NewClient(cfg.NewsAPIKey, cfg.Feed.Sources, cfg.Feed.PageSize)
		sink := archive.NewSink(s3.NewFromConfig(awsCfg), cfg.Bucket)

		orch := ingest.New(client, sink,
			func(ctx context.Context) error {
				return store.EnsureDatabase(ctx, cfg.AdminDSN(), config.DBName)
			},
			func(ctx context.Context) (ingest.ArticleStore, error) {
				st, err := store.Open(ctx, cfg.DSN())
				if err != nil {
					return nil, err
				}
				return st, nil
			},
		)

		result := orch.Run(ctx)
		fmt.Printf("%d %s\n", result.StatusCode, result.Body)
		if result.StatusCode == http.StatusInternalServerError {
			return errors.New(result.Body)
		}
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		fmt.Printf("Starting dashboard at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(store.CycleReader{DSN: cfg.DSN()}, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (defaults to config)")
}

// --- articles command ---

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "List persisted articles with sentiment labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		st, err := store.Open(ctx, cfg.DSN())
		if err != nil {
			return err
		}
		defer st.Close()

		articles, err := st.ListArticles(ctx)
		if err != nil {
			return err
		}
		if len(articles) == 0 {
			fmt.Println("No articles yet. Run 'newsboard ingest' to collect some.")
			return nil
		}

		classifier := sentiment.NewClassifier()

		table := tablewriter.NewTable(os.Stdout,
			tablewriter.WithConfig(tablewriter.Config{
				Row: tw.CellConfig{
					Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
					Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				},
				Header: tw.CellConfig{
					Formatting: tw.CellFormatting{AutoFormat: tw.On},
					Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				},
			}),
			tablewriter.WithRendition(tw.Rendition{Borders: tw.BorderNone}),
		)
		table.Header([]string{"ID", "Source", "Title", "Published", "Sentiment"})

		var rows [][]string
		for _, a := range articles {
			label := classifier.Classify(deref(a.Title))
			published := ""
			if a.PublishedAt != nil {
				published = a.PublishedAt.Format("2006-01-02 15:04")
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", a.ID),
				deref(a.SourceName),
				truncate(deref(a.Title), 60),
				published,
				colorLabel(label),
			})
		}
		table.Bulk(rows)
		table.Render()
		return nil
	},
}

// --- status command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		st, err := store.Open(ctx, cfg.DSN())
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.GetStats(ctx)
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Articles:")
		fmt.Printf("  Total persisted: %d\n", stats.TotalArticles)
		if stats.NewestAt != nil {
			fmt.Printf("  Newest collected: %s\n", stats.NewestAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

// colorLabel renders a sentiment label in the dashboard's color scheme.
func colorLabel(l sentiment.Label) string {
	switch l {
	case sentiment.Positive:
		return color.New(color.FgBlue).Sprint(l)
	case sentiment.Negative:
		return color.New(color.FgRed).Sprint(l)
	case sentiment.Neutral:
		return color.New(color.FgGreen).Sprint(l)
	}
	return l.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
