package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/ulasan/pkg/ulasan/config"
	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
	"github.com/cognicore/ulasan/pkg/ulasan/lexicon"
	"github.com/cognicore/ulasan/pkg/ulasan/stoplist"
	"github.com/cognicore/ulasan/pkg/ulasan/store"
	"github.com/cognicore/ulasan/pkg/ulasan/store/sqlite"
	"github.com/cognicore/ulasan/pkg/ulasan/window"
)

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	var level slog.Level
	if debug {
		level = slog.LevelDebug
	} else {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// loadComponents reads --config and points the dataset at args[0] when given.
func loadComponents(cmd *cobra.Command, args []string) (*config.Components, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if len(args) > 0 {
		cfg.Dataset.Path = args[0]
	}
	if col, _ := cmd.Flags().GetString("text-column"); col != "" {
		cfg.Dataset.TextColumn = col
	}
	if col, _ := cmd.Flags().GetString("label-column"); col != "" {
		cfg.Dataset.LabelColumn = col
	}
	if cfg.Dataset.Path == "" {
		return nil, fmt.Errorf("no dataset given: %w", internalerr.ErrInvalidInput)
	}

	return config.Build(cfg)
}

type preprocessRecord struct {
	Tokens []string `json:"tokens,omitempty"`
	Text   *string  `json:"text,omitempty"`
	Label  *int     `json:"label,omitempty"`
}

func runPreprocess(out io.Writer, comp *config.Components, asText bool) error {
	ds := comp.Dataset
	records := make([]preprocessRecord, len(ds.Texts))
	if asText {
		texts, err := comp.Pipeline.ProcessText(ds.Texts)
		if err != nil {
			return err
		}
		for i := range texts {
			records[i].Text = &texts[i]
		}
	} else {
		batch, err := comp.Pipeline.Process(ds.Texts)
		if err != nil {
			return err
		}
		for i, tokens := range batch {
			records[i].Tokens = tokens
		}
	}

	enc := json.NewEncoder(out)
	for i := range records {
		if ds.HasLabels {
			records[i].Label = &ds.Labels[i]
		}
		if err := enc.Encode(records[i]); err != nil {
			return err
		}
	}
	slog.Debug("preprocess done", "documents", len(records))
	return nil
}

type sequenceRecord struct {
	IDs   []int `json:"ids"`
	Label *int  `json:"label,omitempty"`
}

// sequences runs the pipeline and maps the cleaned text to vocabulary ids.
func sequences(comp *config.Components) ([][]int, error) {
	texts, err := comp.Pipeline.ProcessText(comp.Dataset.Texts)
	if err != nil {
		return nil, err
	}
	seqs, err := comp.Vocabulary.FitTransform(texts)
	if err != nil {
		return nil, err
	}
	slog.Debug("vocabulary fitted", "words", comp.Vocabulary.Len(), "documents", len(seqs))
	return seqs, nil
}

func runSequences(out io.Writer, comp *config.Components) error {
	seqs, err := sequences(comp)
	if err != nil {
		return err
	}

	ds := comp.Dataset
	enc := json.NewEncoder(out)
	for i, ids := range seqs {
		rec := sequenceRecord{IDs: ids}
		if rec.IDs == nil {
			rec.IDs = []int{}
		}
		if ds.HasLabels {
			rec.Label = &ds.Labels[i]
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

type windowRecord struct {
	Window []float64 `json:"window"`
	Label  *int      `json:"label,omitempty"`
}

// runWindows prints one JSON line per window, or writes the window matrix
// to npyPath as a NumPy array when it is set.
func runWindows(out io.Writer, comp *config.Components, npyPath string) error {
	seqs, err := sequences(comp)
	if err != nil {
		return err
	}

	var (
		windows [][]float64
		labels  []int
	)
	if comp.Dataset.HasLabels {
		windows, labels, err = window.SplitLabeled(comp.Splitter, seqs, comp.Dataset.Labels)
		if err != nil {
			return err
		}
	} else {
		windows = comp.Splitter.Split(seqs)
	}
	slog.Debug("windows built", "sequences", len(seqs), "windows", len(windows))

	if npyPath != "" {
		return writeNpy(npyPath, windows)
	}

	enc := json.NewEncoder(out)
	for i, w := range windows {
		rec := windowRecord{Window: w}
		if labels != nil {
			rec.Label = &labels[i]
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeNpy(path string, windows [][]float64) error {
	t, err := window.Tensor(windows)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.WriteNpy(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Debug("window matrix written", "path", path, "shape", t.Shape())
	return f.Close()
}

// importLexicon reads a mapping or set file and stores it under name.
func importLexicon(ctx context.Context, st store.Store, kind store.Kind, name, path string) (string, error) {
	yamlFile := false
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		yamlFile = true
	}

	switch kind {
	case store.KindMapping:
		var (
			lex *lexicon.Lexicon
			err error
		)
		if yamlFile {
			lex, err = lexicon.LoadFromYAML(path)
		} else {
			lex, err = lexicon.LoadTSV(path)
		}
		if err != nil {
			return "", fmt.Errorf("read mapping %s: %w", path, err)
		}
		return st.ImportMapping(ctx, name, lex.Entries())
	case store.KindSet:
		var (
			set *stoplist.Set
			err error
		)
		if yamlFile {
			set, err = stoplist.LoadYAML(path)
		} else {
			set, err = stoplist.LoadWordList(path)
		}
		if err != nil {
			return "", fmt.Errorf("read set %s: %w", path, err)
		}
		return st.ImportSet(ctx, name, set.All())
	default:
		return "", fmt.Errorf("kind %q: %w", kind, internalerr.ErrInvalidInput)
	}
}

func listImports(ctx context.Context, out io.Writer, st store.Store) error {
	imports, err := st.Imports(ctx)
	if err != nil {
		return err
	}
	for _, imp := range imports {
		fmt.Fprintf(out, "%s\t%s\t%s\t%d\t%s\n",
			imp.ID, imp.Resource, imp.Kind, imp.Entries, imp.ImportedAt.Format(time.RFC3339))
	}
	return nil
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ulasan",
		Short: "Indonesian review preprocessing",
		Long: `Ulasan normalizes Indonesian review text into token sequences and
fixed-length windows for text classification.

Examples:
  ulasan preprocess reviews.tsv --text
  ulasan windows reviews.tsv --config ulasan.yaml
  ulasan lexicon import --db lexicon.db --kind mapping --name informal-formal slang.tsv`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug, _ := cmd.Flags().GetBool("debug")
			setupLogger(debug)
		},
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "Enable debug logging")

	datasetFlags := func(cmd *cobra.Command) {
		cmd.Flags().String("text-column", "", "Text column of the dataset (default: text)")
		cmd.Flags().String("label-column", "", "Label column of the dataset (default: label)")
	}

	preprocessCmd := &cobra.Command{
		Use:   "preprocess [dataset]",
		Short: "Run the normalization pipeline over a dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := loadComponents(cmd, args)
			if err != nil {
				return err
			}
			defer comp.Close()
			asText, _ := cmd.Flags().GetBool("text")
			return runPreprocess(cmd.OutOrStdout(), comp, asText)
		},
	}
	preprocessCmd.Flags().Bool("text", false, "Print joined text instead of token lists")
	datasetFlags(preprocessCmd)

	sequencesCmd := &cobra.Command{
		Use:   "sequences [dataset]",
		Short: "Map cleaned documents to vocabulary id sequences",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := loadComponents(cmd, args)
			if err != nil {
				return err
			}
			defer comp.Close()
			return runSequences(cmd.OutOrStdout(), comp)
		},
	}
	datasetFlags(sequencesCmd)

	windowsCmd := &cobra.Command{
		Use:   "windows [dataset]",
		Short: "Split id sequences into fixed-length windows",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := loadComponents(cmd, args)
			if err != nil {
				return err
			}
			defer comp.Close()
			npyPath, _ := cmd.Flags().GetString("npy")
			return runWindows(cmd.OutOrStdout(), comp, npyPath)
		},
	}
	windowsCmd.Flags().String("npy", "", "Write the window matrix to this .npy file instead of JSON lines")
	datasetFlags(windowsCmd)

	lexiconCmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Manage the lexical store",
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a mapping or word list into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _ := cmd.Flags().GetString("db")
			kind, _ := cmd.Flags().GetString("kind")
			name, _ := cmd.Flags().GetString("name")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			st, err := sqlite.OpenSQLite(ctx, db)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			id, err := importLexicon(ctx, st, store.Kind(strings.ToLower(kind)), name, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	importCmd.Flags().String("db", "", "SQLite database path")
	importCmd.Flags().String("kind", "mapping", "Resource kind: mapping or set")
	importCmd.Flags().String("name", "", "Resource name (e.g. informal-formal, root-words)")
	_ = importCmd.MarkFlagRequired("db")
	_ = importCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List imports recorded in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _ := cmd.Flags().GetString("db")
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			st, err := sqlite.OpenSQLite(ctx, db)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()
			return listImports(ctx, cmd.OutOrStdout(), st)
		},
	}
	listCmd.Flags().String("db", "", "SQLite database path")
	_ = listCmd.MarkFlagRequired("db")

	lexiconCmd.AddCommand(importCmd, listCmd)
	rootCmd.AddCommand(preprocessCmd, sequencesCmd, windowsCmd, lexiconCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
