package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"apartment-scraper/config"
	"apartment-scraper/pipeline"
	"apartment-scraper/scraper"
	"apartment-scraper/scraper/apartments"
	"apartment-scraper/storage"
	"apartment-scraper/utils"
)

var (
	flagOutput   string
	flagOutDir   string
	flagHTML     string
	flagTimeout  int
	flagSettle   int
	flagHeadless bool
	flagPostgres bool
	flagLogLevel string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apartment-scraper [url]",
		Short: "Scrape unit rows from an apartments.com listing into a spreadsheet",
		Long: `Render one apartments.com listing page, read every unit row
(unit number, square feet, price, availability) and save them to
scraped/apartment_listings.xlsx. Existing files are never overwritten;
a numeric suffix is added instead.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScrape,
	}

	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file name (.xlsx or .csv)")
	cmd.Flags().StringVar(&flagOutDir, "out-dir", "", "output directory")
	cmd.Flags().StringVar(&flagHTML, "html", "", "scrape a saved HTML page instead of launching Chrome")
	cmd.Flags().IntVar(&flagTimeout, "timeout", 0, "seconds to wait for unit rows to appear")
	cmd.Flags().IntVar(&flagSettle, "settle", -1, "seconds to wait after the rows appear")
	cmd.Flags().BoolVar(&flagHeadless, "headless", true, "run Chrome headless")
	cmd.Flags().BoolVar(&flagPostgres, "postgres", false, "also store units in PostgreSQL")
	cmd.Flags().StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error")

	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	logger := utils.NewLogger()
	cfg := config.Load()
	applyFlags(cmd, cfg)

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warn("[main] %v, keeping info level", err)
	}

	var input string
	if len(args) > 0 {
		input = args[0]
	} else if term.IsTerminal(int(os.Stdin.Fd())) {
		input = promptURL(os.Stdin, cmd.OutOrStdout())
	}

	open := func() (scraper.Browser, error) {
		if flagHTML != "" {
			return scraper.NewSnapshotBrowserFromFile(flagHTML)
		}
		return scraper.NewChromeBrowser(cfg, logger)
	}

	_, err := scrapeListing(cfg, logger, input, open)
	return err
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if flagOutput != "" {
		cfg.OutputFile = flagOutput
	}
	if flagOutDir != "" {
		cfg.OutputDir = flagOutDir
	}
	if flagTimeout > 0 {
		cfg.WaitTimeout = time.Duration(flagTimeout) * time.Second
	}
	if flagSettle >= 0 {
		cfg.SettleDelay = time.Duration(flagSettle) * time.Second
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = flagHeadless
	}
	if flagPostgres {
		cfg.PostgresEnabled = true
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
}

func promptURL(in io.Reader, out io.Writer) string {
	fmt.Fprint(out, "Enter the apartments.com listing URL to scrape: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return strings.TrimSpace(line)
}

// scrapeListing validates input, then runs the pipeline inside a scoped
// browser. Bad input and failed scrapes are reported, not returned; only
// setup and export failures come back as errors.
func scrapeListing(cfg *config.Config, logger *utils.Logger, input string, open func() (scraper.Browser, error)) (string, error) {
	if strings.TrimSpace(input) == "" {
		logger.Info("[main] No URL provided. Using default URL...")
	}
	url, err := apartments.ResolveURL(input, cfg)
	if err != nil {
		logger.Error("[main] Invalid URL. Please provide a valid apartments.com URL (%v)", err)
		return "", nil
	}

	if err := cfg.EnsureOutputDir(); err != nil {
		logger.Error("[main] %v", err)
		return "", err
	}

	var store storage.UnitStore
	if cfg.PostgresEnabled {
		pg, err := storage.NewPostgresWriter(cfg.DSN(), &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		})
		if err != nil {
			logger.Error("[main] Failed to connect to PostgreSQL: %v", err)
			logger.Error("[main] Continuing with file export only")
		} else {
			defer pg.Close()
			store = pg
		}
	}

	var path string
	err = scraper.WithBrowser(open, func(b scraper.Browser) error {
		var runErr error
		path, runErr = pipeline.New(cfg, logger, store).Run(b, url)
		if errors.Is(runErr, scraper.ErrNavigation) || errors.Is(runErr, scraper.ErrTimeout) {
			logger.Warn("[main] No data was scraped")
			return nil
		}
		return runErr
	})
	if err != nil {
		logger.Error("[main] %v", err)
		return "", err
	}

	if path != "" {
		fmt.Printf("  Done. Units saved to %s\n\n", path)
	}
	return path, nil
}
