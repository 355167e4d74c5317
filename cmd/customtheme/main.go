package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsvensson/customtheme"
	"github.com/jsvensson/customtheme/internal/config"
	"github.com/jsvensson/customtheme/internal/exporter"
	"github.com/jsvensson/customtheme/internal/format"
	"github.com/jsvensson/customtheme/internal/kv"
	"github.com/jsvensson/customtheme/internal/server"
	"github.com/jsvensson/customtheme/internal/theme"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const trustWarning = "Importing custom themes can pose security risks. They may contain malicious code or " +
	"inappropriate content. Please ensure that you trust the source of the theme before importing."

var (
	flagConfig    string
	flagVerbose   int
	flagOut       string
	flagCheck     bool
	flagYes       bool
	flagListen    string
	flagEphemeral bool
	version       = "dev" // Injected at build time via ldflags

	cfg *config.Config
)

// errSilent exits non-zero without cobra printing an error.
var errSilent = errors.New("")

var rootCmd = &cobra.Command{
	Use:               "customtheme",
	Short:             "Import, export and serve custom color themes",
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored theme with a theme document",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored theme as a JSON document",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var templateCmd = &cobra.Command{
	Use:       "template <light|dark>",
	Short:     "Write a starter theme filled from a built-in palette",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"light", "dark"},
	RunE:      runTemplate,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored theme",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored colors and metadata",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

var selectCmd = &cobra.Command{
	Use:       "select [light|dark|custom]",
	Short:     "Print or set the active theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "custom"},
	RunE:      runSelect,
}

var cssCmd = &cobra.Command{
	Use:   "css",
	Short: "Print the stylesheet for the active theme",
	Args:  cobra.NoArgs,
	RunE:  runCSS,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format theme documents and config files",
	Long:  "Format one or more .json or .hcl files in-place. Prints the name of each file that was modified.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the stylesheet and theme API over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath, "path to config file")
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "increase log verbosity (can be repeated)")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "keep the theme in memory only")
	importCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "skip the trust warning")
	exportCmd.Flags().StringVar(&flagOut, "out", ".", "output directory")
	templateCmd.Flags().StringVar(&flagOut, "out", ".", "output directory")
	fmtCmd.Flags().BoolVarP(&flagCheck, "check", "c", false, "check if files are formatted (do not write changes)")
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "address to listen on (overrides config)")

	rootCmd.AddCommand(importCmd, exportCmd, templateCmd, clearCmd, showCmd, selectCmd, cssCmd, fmtCmd, serveCmd, versionCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagEphemeral {
		c.Storage.Driver = kv.DriverMemory
	}
	if flagVerbose > 0 {
		c.Log.Verbosity = flagVerbose
	}
	if flagListen != "" {
		c.Server.Listen = flagListen
	}

	var logPath *string
	if c.Log.File != "" {
		logPath = &c.Log.File
	}
	commonlog.Configure(c.Log.Verbosity, logPath)

	cfg = c
	return nil
}

func openApp(ctx context.Context) (*customtheme.App, error) {
	app, err := customtheme.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening theme store: %w", err)
	}
	return app, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	if !flagYes {
		fmt.Fprintln(cmd.ErrOrStderr(), trustWarning)
	}

	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.ImportFile(cmd.Context(), args[0]) {
		fmt.Fprintln(cmd.OutOrStdout(), "not imported")
		return errSilent
	}
	fmt.Fprintln(cmd.OutOrStdout(), "imported")
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	d, err := app.ExportTheme(cmd.Context())
	if err != nil {
		return fmt.Errorf("exporting theme: %w", err)
	}
	return deliver(cmd, d)
}

func runTemplate(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	d, err := app.ExportTemplate(args[0])
	if err != nil {
		return fmt.Errorf("exporting template: %w", err)
	}
	return deliver(cmd, d)
}

func deliver(cmd *cobra.Command, d exporter.Download) error {
	w := &exporter.Writer{OutputDir: flagOut}
	path, err := w.Write(d)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Clear(cmd.Context())
}

func runShow(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	colors, metadata, err := app.Read(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading theme: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Selector theme.Selector `json:"selector"`
		Colors   theme.Colors   `json:"colors"`
		Metadata theme.Metadata `json:"metadata"`
	}{app.Selector(), colors, metadata})
}

func runSelect(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), app.Selector())
		return nil
	}

	sel, err := theme.ParseSelector(args[0])
	if err != nil {
		return err
	}
	return app.SetSelector(cmd.Context(), sel)
}

func runCSS(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	css, err := app.Stylesheet(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), css)
	return nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	hasErrors := false
	needsFormatting := false

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error reading %s: %v\n", path, err)
			hasErrors = true
			continue
		}

		content := string(data)
		formatted, err := format.File(path, content)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error formatting %s: %v\n", path, err)
			hasErrors = true
			continue
		}

		if formatted == content {
			continue
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		needsFormatting = true

		if !flagCheck {
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error writing %s: %v\n", path, err)
				hasErrors = true
			}
		}
	}

	if hasErrors || (flagCheck && needsFormatting) {
		return errSilent
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	srvCfg := server.DefaultConfig()
	srvCfg.Listen = cfg.Server.Listen
	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", srvCfg.Listen)
	return server.New(srvCfg, app).ListenAndServe(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
