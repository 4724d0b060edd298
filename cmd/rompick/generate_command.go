package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"rompick/internal/classify"
	"rompick/internal/config"
	"rompick/internal/dat"
	"rompick/internal/index"
	"rompick/internal/logging"
	"rompick/internal/pattern"
	"rompick/internal/rank"
	"rompick/internal/region"
	"rompick/internal/report"
	"rompick/internal/score"
	"rompick/internal/selector"
)

type generateFlags struct {
	datPath  string
	inputDir string
	output   string

	regions        []string
	languages      []string
	languageWeight int

	prioritizeLanguages bool
	preferParents       bool
	preferPrereleases   bool
	earlyRevisions      bool
	earlyVersions       bool
	inputOrder          bool
	allRegions          bool
	allRegionsWithLang  bool
	extension           string

	noBios            bool
	noProgram         bool
	noEnhancementChip bool
	noUnlicensed      bool
	noPirate          bool
	noPromo           bool
	noProto           bool
	noBeta            bool
	noDemo            bool
	noSample          bool
	noAll             bool

	prefer       string
	avoid        string
	exclude      string
	excludeAfter string
	separator    string
	ignoreCase   bool
	regex        bool

	useHashes bool
	threads   int
	chunkSize int
	move      bool

	verbose   bool
	debug     bool
	noWarning bool
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Select one entry per game family from a DAT catalog",
		Long: `Generate reads a DAT catalog, groups entries into parent/clone
families, ranks each family by the configured preferences, and resolves
the best available candidate per family. Without an input directory the
selected names are printed; with one, matching files are located by name
or by SHA1 digest and optionally copied or moved to an output directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if err := applyGenerateFlags(cmd, &flags, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runGenerate(cmd, &flags, cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&flags.datPath, "dat", "d", "", "DAT catalog file (required)")
	fs.StringVarP(&flags.inputDir, "input-dir", "i", "", "Directory scanned for rom files")
	fs.StringVarP(&flags.output, "output-dir", "o", "", "Directory receiving selected files")

	fs.StringSliceVarP(&flags.regions, "regions", "r", nil, "Preferred regions, most preferred first")
	fs.StringSliceVarP(&flags.languages, "languages", "l", nil, "Preferred languages, most preferred first")
	fs.IntVarP(&flags.languageWeight, "language-weight", "w", 3, "Weight applied per matched preferred language")

	fs.BoolVar(&flags.prioritizeLanguages, "prioritize-languages", false, "Rank languages before regions")
	fs.BoolVar(&flags.preferParents, "prefer-parents", false, "Prefer parent entries over clones")
	fs.BoolVar(&flags.preferPrereleases, "prefer-prereleases", false, "Prefer prerelease entries over final releases")
	fs.BoolVar(&flags.earlyRevisions, "early-revisions", false, "Prefer the earliest revision instead of the latest")
	fs.BoolVar(&flags.earlyVersions, "early-versions", false, "Prefer the earliest version instead of the latest")
	fs.BoolVar(&flags.inputOrder, "input-order", false, "Break ties by position in the catalog")
	fs.BoolVar(&flags.allRegions, "all-regions", false, "Keep candidates from non-preferred regions eligible")
	fs.BoolVar(&flags.allRegionsWithLang, "all-regions-with-lang", false, "Like --all-regions, limited to preferred languages")
	fs.StringVarP(&flags.extension, "extension", "e", "", "Extension appended to printed names")

	fs.BoolVar(&flags.noBios, "no-bios", false, "Filter out BIOSes")
	fs.BoolVar(&flags.noProgram, "no-program", false, "Filter out programs and test programs")
	fs.BoolVar(&flags.noEnhancementChip, "no-enhancement-chip", false, "Filter out enhancement chips")
	fs.BoolVar(&flags.noUnlicensed, "no-unlicensed", false, "Filter out unlicensed entries")
	fs.BoolVar(&flags.noPirate, "no-pirate", false, "Filter out pirate entries")
	fs.BoolVar(&flags.noPromo, "no-promo", false, "Filter out promo entries")
	fs.BoolVar(&flags.noProto, "no-proto", false, "Filter out prototypes")
	fs.BoolVar(&flags.noBeta, "no-beta", false, "Filter out betas")
	fs.BoolVar(&flags.noDemo, "no-demo", false, "Filter out demos")
	fs.BoolVar(&flags.noSample, "no-sample", false, "Filter out samples")
	fs.BoolVar(&flags.noAll, "no-all", false, "Apply every category filter except --no-unlicensed")

	fs.StringVar(&flags.prefer, "prefer", "", "Prefer names matching these patterns (or file:path)")
	fs.StringVar(&flags.avoid, "avoid", "", "Avoid names matching these patterns (or file:path)")
	fs.StringVar(&flags.exclude, "exclude", "", "Exclude names matching these patterns (or file:path)")
	fs.StringVar(&flags.excludeAfter, "exclude-after", "", "Skip whole families whose best candidate matches")
	fs.StringVar(&flags.separator, "separator", ",", "Separator for inline pattern lists")
	fs.BoolVar(&flags.ignoreCase, "ignore-case", false, "Match pattern lists case-insensitively")
	fs.BoolVar(&flags.regex, "regex", false, "Treat pattern lists as regular expressions")

	fs.BoolVar(&flags.useHashes, "use-hashes", false, "Resolve files by SHA1 digest instead of name")
	fs.IntVar(&flags.threads, "threads", 0, "Hash worker count, 0 for one per CPU")
	fs.IntVar(&flags.chunkSize, "chunk-size", 32, "Hash read size in MiB")
	fs.BoolVar(&flags.move, "move", false, "Move files instead of copying")

	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "Print filter and sorting criteria tables")
	fs.BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&flags.noWarning, "no-warning", false, "Suppress warning diagnostics")

	_ = cmd.MarkFlagRequired("dat")
	return cmd
}

// applyGenerateFlags merges explicitly set flags over the loaded
// configuration, then re-normalizes so flag-supplied codes and paths get
// the same treatment as file values.
func applyGenerateFlags(cmd *cobra.Command, flags *generateFlags, cfg *config.Config) error {
	fs := cmd.Flags()

	if fs.Changed("input-dir") {
		cfg.Paths.InputDir = flags.inputDir
	}
	if fs.Changed("output-dir") {
		cfg.Paths.OutputDir = flags.output
	}
	if fs.Changed("regions") {
		cfg.Selection.Regions = flags.regions
	}
	if fs.Changed("languages") {
		cfg.Selection.Languages = flags.languages
	}
	if fs.Changed("language-weight") {
		cfg.Selection.LanguageWeight = flags.languageWeight
	}
	if fs.Changed("extension") {
		cfg.Selection.Extension = flags.extension
	}

	cfg.Selection.PrioritizeLanguages = cfg.Selection.PrioritizeLanguages || flags.prioritizeLanguages
	cfg.Selection.PreferParents = cfg.Selection.PreferParents || flags.preferParents
	cfg.Selection.PreferPrereleases = cfg.Selection.PreferPrereleases || flags.preferPrereleases
	cfg.Selection.EarlyRevisions = cfg.Selection.EarlyRevisions || flags.earlyRevisions
	cfg.Selection.EarlyVersions = cfg.Selection.EarlyVersions || flags.earlyVersions
	cfg.Selection.InputOrder = cfg.Selection.InputOrder || flags.inputOrder
	cfg.Selection.AllRegions = cfg.Selection.AllRegions || flags.allRegions
	cfg.Selection.AllRegionsWithLang = cfg.Selection.AllRegionsWithLang || flags.allRegionsWithLang

	cfg.Filters.NoBios = cfg.Filters.NoBios || flags.noBios || flags.noAll
	cfg.Filters.NoProgram = cfg.Filters.NoProgram || flags.noProgram || flags.noAll
	cfg.Filters.NoEnhancementChip = cfg.Filters.NoEnhancementChip || flags.noEnhancementChip || flags.noAll
	cfg.Filters.NoUnlicensed = cfg.Filters.NoUnlicensed || flags.noUnlicensed
	cfg.Filters.NoPirate = cfg.Filters.NoPirate || flags.noPirate || flags.noAll
	cfg.Filters.NoPromo = cfg.Filters.NoPromo || flags.noPromo || flags.noAll
	cfg.Filters.NoProto = cfg.Filters.NoProto || flags.noProto || flags.noAll
	cfg.Filters.NoBeta = cfg.Filters.NoBeta || flags.noBeta || flags.noAll
	cfg.Filters.NoDemo = cfg.Filters.NoDemo || flags.noDemo || flags.noAll
	cfg.Filters.NoSample = cfg.Filters.NoSample || flags.noSample || flags.noAll

	if fs.Changed("prefer") {
		cfg.Lists.Prefer = flags.prefer
	}
	if fs.Changed("avoid") {
		cfg.Lists.Avoid = flags.avoid
	}
	if fs.Changed("exclude") {
		cfg.Lists.Exclude = flags.exclude
	}
	if fs.Changed("exclude-after") {
		cfg.Lists.ExcludeAfter = flags.excludeAfter
	}
	if fs.Changed("separator") {
		cfg.Lists.Separator = flags.separator
	}
	cfg.Lists.IgnoreCase = cfg.Lists.IgnoreCase || flags.ignoreCase
	cfg.Lists.Regex = cfg.Lists.Regex || flags.regex

	cfg.Index.UseHashes = cfg.Index.UseHashes || flags.useHashes
	if fs.Changed("threads") {
		cfg.Index.Threads = flags.threads
	}
	if fs.Changed("chunk-size") {
		cfg.Index.ChunkSizeMiB = flags.chunkSize
	}
	cfg.Transfer.Move = cfg.Transfer.Move || flags.move

	if flags.debug {
		cfg.Logging.Level = "debug"
	} else if flags.noWarning {
		cfg.Logging.Level = "error"
	}

	return cfg.Normalize()
}

func runGenerate(cmd *cobra.Command, flags *generateFlags, cfg *config.Config) error {
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	logger = logger.With(slog.String("run_id", uuid.NewString()))

	listOpts := pattern.Options{
		Separator:  cfg.Lists.Separator,
		IgnoreCase: cfg.Lists.IgnoreCase,
		Regex:      cfg.Lists.Regex,
	}
	preferList, err := pattern.Parse(cfg.Lists.Prefer, listOpts)
	if err != nil {
		return fmt.Errorf("invalid prefer list: %w", err)
	}
	avoidList, err := pattern.Parse(cfg.Lists.Avoid, listOpts)
	if err != nil {
		return fmt.Errorf("invalid avoid list: %w", err)
	}
	excludeList, err := pattern.Parse(cfg.Lists.Exclude, listOpts)
	if err != nil {
		return fmt.Errorf("invalid exclude list: %w", err)
	}
	excludeAfterList, err := pattern.Parse(cfg.Lists.ExcludeAfter, listOpts)
	if err != nil {
		return fmt.Errorf("invalid exclude-after list: %w", err)
	}

	datPath, err := config.ExpandPath(flags.datPath)
	if err != nil {
		return err
	}
	catalog, err := dat.ParseFile(datPath)
	if err != nil {
		return err
	}
	check := catalog.Inspect()
	logger.Debug("catalog parsed",
		slog.String("dat", datPath),
		slog.Int("games", check.Games))
	if !check.HasCloneOf {
		logger.Warn("catalog declares no clone relationships, every entry forms its own family")
	}
	if cfg.Index.UseHashes && check.MissingSHA1 != "" {
		return fmt.Errorf("catalog entry %q declares a rom without a sha1 digest, hash matching is impossible", check.MissingSHA1)
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var hashIndex index.Index
	if cfg.Index.UseHashes {
		opts := index.Options{
			Workers:   cfg.Index.Threads,
			ChunkSize: int64(cfg.Index.ChunkSizeMiB) << 20,
			Logger:    logger,
		}
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			// The file count is only known once the scan has listed the
			// directory, so the bar is built from the Total callback.
			barOut := cmd.ErrOrStderr()
			var bar *progressbar.ProgressBar
			opts.Total = func(n int) { bar = index.NewProgressBar(n, barOut) }
			opts.Progress = func() { _ = bar.Add(1) }
			defer func() {
				if bar != nil {
					_ = bar.Finish()
				}
			}()
		}
		started := time.Now()
		hashIndex, err = index.Build(runCtx, cfg.Paths.InputDir, catalog.Digests(), opts)
		if err != nil {
			return fmt.Errorf("build hash index: %w", err)
		}
		logger.Info("hash index built",
			slog.Int("digests", len(hashIndex)),
			slog.Duration("elapsed", time.Since(started).Round(time.Millisecond)))
	}

	filters := classify.Filters{
		BIOS:            cfg.Filters.NoBios,
		Program:         cfg.Filters.NoProgram,
		EnhancementChip: cfg.Filters.NoEnhancementChip,
		Unlicensed:      cfg.Filters.NoUnlicensed,
		Pirate:          cfg.Filters.NoPirate,
		Promo:           cfg.Filters.NoPromo,
		Proto:           cfg.Filters.NoProto,
		Beta:            cfg.Filters.NoBeta,
		Demo:            cfg.Filters.NoDemo,
		Sample:          cfg.Filters.NoSample,
	}
	registry := region.NewRegistry(logger)
	classifier := classify.New(registry, filters, excludeList, logger)
	families := classifier.BuildFamilies(catalog.Games)

	prefs := score.Preferences{
		Regions:        cfg.Selection.Regions,
		Languages:      cfg.Selection.Languages,
		LanguageWeight: cfg.Selection.LanguageWeight,
		EarlyRevisions: cfg.Selection.EarlyRevisions,
		EarlyVersions:  cfg.Selection.EarlyVersions,
	}
	rankOpts := rank.Options{
		PrioritizeLanguages: cfg.Selection.PrioritizeLanguages,
		PreferPrereleases:   cfg.Selection.PreferPrereleases,
		PreferParents:       cfg.Selection.PreferParents,
		InputOrder:          cfg.Selection.InputOrder,
		Prefer:              preferList,
		Avoid:               avoidList,
	}

	if flags.verbose {
		errOut := cmd.ErrOrStderr()
		if filterTable := report.Filters(filters, len(excludeList) > 0, len(excludeAfterList) > 0); filterTable != "" {
			fmt.Fprintln(errOut, filterTable)
		}
		fmt.Fprintln(errOut, report.Criteria(rankOpts, cfg.Selection.EarlyRevisions, cfg.Selection.EarlyVersions))
	}

	for _, family := range families {
		score.Assign(family, prefs)
		rank.Sort(family.Candidates, rankOpts)
	}
	if logger.Enabled(runCtx, slog.LevelDebug) {
		for _, family := range families {
			names := make([]string, 0, len(family.Candidates))
			for _, candidate := range family.Candidates {
				names = append(names, candidate.Name)
			}
			logger.Debug("candidate order",
				slog.String("family", family.Key),
				slog.String("order", strings.Join(names, ", ")))
		}
	}
	if err := runCtx.Err(); err != nil {
		return err
	}

	if cfg.Paths.OutputDir != "" {
		if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		lock := flock.New(filepath.Join(cfg.Paths.OutputDir, ".rompick.lock"))
		ok, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire output lock: %w", err)
		}
		if !ok {
			return fmt.Errorf("another rompick run is writing to %s", cfg.Paths.OutputDir)
		}
		defer func() { _ = lock.Unlock() }()
	}

	mode := selector.ModeNameOnly
	switch {
	case cfg.Index.UseHashes:
		mode = selector.ModeHash
	case cfg.Paths.InputDir != "":
		mode = selector.ModePath
	}

	started := time.Now()
	sel := selector.New(selector.Options{
		Mode:               mode,
		InputDir:           cfg.Paths.InputDir,
		OutputDir:          cfg.Paths.OutputDir,
		Extension:          cfg.Selection.Extension,
		Move:               cfg.Transfer.Move,
		ExcludeAfter:       excludeAfterList,
		AllRegions:         cfg.Selection.AllRegions,
		AllRegionsWithLang: cfg.Selection.AllRegionsWithLang,
		Index:              hashIndex,
		Out:                cmd.OutOrStdout(),
		Logger:             logger,
	})
	stats, err := sel.Run(runCtx, families)
	if err != nil {
		return err
	}

	logger.Info("selection complete",
		slog.Int("families", stats.Families),
		slog.Int("selected", stats.Selected),
		slog.Int("unresolved", stats.Unresolved))
	if flags.verbose {
		fmt.Fprintln(cmd.ErrOrStderr(), report.Summary(stats, time.Since(started)))
	}
	return nil
}
