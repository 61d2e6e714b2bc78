package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cognicore/seoscope/internal/fetch"
	"github.com/cognicore/seoscope/internal/logging"
	"github.com/cognicore/seoscope/pkg/seoscope"
	"github.com/cognicore/seoscope/pkg/seoscope/config"
	"github.com/cognicore/seoscope/pkg/seoscope/ingest"
	"github.com/cognicore/seoscope/pkg/seoscope/store"
	"github.com/cognicore/seoscope/pkg/seoscope/store/memstore"
	"github.com/cognicore/seoscope/pkg/seoscope/store/sqlite"
)

// app carries what every subcommand needs once settings are loaded.
type app struct {
	v       *viper.Viper
	cfgFile string
	debug   bool

	settings Settings
	log      logging.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "seoscope",
		Short: "SEO content analysis for the pages ranking on a keyword",
		Long: `seoscope analyses the pages ranking for a search keyword: average length and
structure, keyword density, sentiment, frequent terms and related-term
suggestions learned from the pages themselves.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ./seoscope.yaml or ./config/seoscope.yaml)")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")
	flags.String("db", "", "SQLite database path (empty keeps results in memory)")

	root.AddCommand(
		newAnalyzeCommand(a),
		newPromptCommand(a),
		newGenerateCommand(a),
		newServeCommand(a),
		newHistoryCommand(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	if err := a.v.BindPFlag("db", cmd.Root().PersistentFlags().Lookup("db")); err != nil {
		return fmt.Errorf("bind db flag: %w", err)
	}
	s, err := loadSettings(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if a.debug {
		s.Log.Level = "debug"
		s.Log.Development = true
	}

	log, err := logging.New(s.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.settings = s
	a.log = log.With(logging.String("command", cmd.Name()))
	return nil
}

// openStore opens the configured database. With no database configured it
// returns an in-memory store when fallback is set and nil otherwise.
func (a *app) openStore(ctx context.Context, fallback bool) (store.Store, error) {
	if a.settings.DB == "" {
		if fallback {
			return memstore.New(), nil
		}
		return nil, nil
	}
	st, err := sqlite.OpenSQLite(ctx, a.settings.DB)
	if err != nil {
		return nil, err
	}
	a.log.Debug("opened database", logging.String("path", a.settings.DB))
	return st, nil
}

// newEngine builds the analysis engine from the configured data files.
func (a *app) newEngine(st store.Store) (*seoscope.Engine, error) {
	loader := config.Loader{
		StoplistPath: a.settings.Stoplist,
		LexiconPath:  a.settings.Lexicon,
		Segmenter:    a.settings.Segmenter,
	}
	components, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load configs: %w", err)
	}

	opts := seoscope.Options{
		Tokenizer:        components.Tokenizer,
		Scorer:           components.Scorer,
		Embedding:        a.settings.Embedding,
		Store:            st,
		ExpectedLanguage: a.settings.Language,
		Logger:           a.log,
	}
	if a.settings.DetectLanguage {
		opts.Detector = ingest.NewLanguageDetector()
	}
	return seoscope.New(opts)
}

func (a *app) newFetcher() *fetch.Fetcher {
	return fetch.New(a.settings.Fetch, nil, a.log)
}

// openInput opens path for reading; "-" is the command's stdin.
func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func closeStore(log logging.Logger, st store.Store) {
	if st == nil {
		return
	}
	if err := st.Close(); err != nil {
		log.Warn("close store", logging.Error(err))
	}
}
