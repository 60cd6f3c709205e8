package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"themepainter/api"
	"themepainter/config"
	"themepainter/storage"
	"themepainter/theme"
	"themepainter/watcher"
)

var (
	dataDir    string
	listen     string
	listenPort int
	themeFile  string
	storeKind  string
	appVersion = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "themepainter",
	Short: "themepainter – adjustable theme colors compiled to CSS",
	Long:  "Themepainter compiles user-adjustable theme colors into CSS and serves them with a live preview.",
	Run:   run,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  "Manage themepainter configuration files.",
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a default configuration file",
	Long:  "Generate a default themepainter.config file in the specified data directory (or current directory if not specified).",
	Run:   runConfigGenerate,
}

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Print the compiled stylesheet",
	Args:  cobra.NoArgs,
	RunE:  runCompile,
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the live preview templates as JSON",
	Args:  cobra.NoArgs,
	RunE:  runPreview,
}

var setCmd = &cobra.Command{
	Use:   "set <color-id> <value>",
	Short: "Save a color value",
	Args:  cobra.ExactArgs(2),
	RunE:  runSet,
}

var resetCmd = &cobra.Command{
	Use:   "reset <color-id>",
	Short: "Return a color to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runReset,
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check the theme configuration",
	Args:  cobra.NoArgs,
	RunE:  runLint,
}

var injectCmd = &cobra.Command{
	Use:   "inject <html-file>",
	Short: "Print an HTML document with the compiled styles in its head",
	Args:  cobra.ExactArgs(1),
	RunE:  runInject,
}

func init() {
	wd, _ := os.Getwd()
	rootCmd.Version = appVersion
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", wd, "Data directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&themeFile, "theme", "", "Theme color configuration (.json or .yaml)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "Value store: memory, file or sqlite")
	rootCmd.Flags().StringVar(&listen, "listen", "all", "IP address to listen on (default: all)")
	rootCmd.Flags().IntVar(&listenPort, "listen-port", 8080, "Port to listen on (default: 8080)")

	configCmd.AddCommand(configGenerateCmd)
	rootCmd.AddCommand(configCmd, compileCmd, previewCmd, setCmd, resetCmd, lintCmd, injectCmd)
}

// loadConfig reads the config file and applies explicitly provided flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	dir, err := homedir.Expand(dataDir)
	if err != nil {
		return config.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	if cmd.Flags().Changed("data-dir") || cfg.DataDir == "" || cfg.DataDir == "." {
		cfg.DataDir = dir
	}
	if cmd.Flags().Changed("theme") {
		if cfg.ThemeFile, err = homedir.Expand(themeFile); err != nil {
			return config.Config{}, err
		}
	}
	if cmd.Flags().Changed("store") {
		cfg.Store = storeKind
	}
	if cmd.Flags().Lookup("listen") != nil && (cmd.Flags().Changed("listen") || cmd.Flags().Changed("listen-port")) {
		if listen != "" && listen != "all" {
			cfg.ListenAddr = fmt.Sprintf("%s:%d", listen, listenPort)
		} else {
			cfg.ListenAddr = fmt.Sprintf(":%d", listenPort)
		}
	}

	if cfg.DataDir, err = filepath.Abs(cfg.DataDir); err != nil {
		return config.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	return cfg, nil
}

// openManager loads the theme tree and opens the configured stores.
func openManager(cfg config.Config) (*theme.Manager, *storage.Backend, error) {
	tree, err := config.LoadTree(cfg.ThemePath())
	if err != nil {
		return nil, nil, fmt.Errorf("load theme: %w", err)
	}

	backend, err := storage.Open(cfg.Store, cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	manager, err := theme.NewManager(tree, backend.Values, backend.Cache, nil)
	if err != nil {
		_ = backend.Close()
		return nil, nil, err
	}
	return manager, backend, nil
}

func run(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		log.Fatal(err)
	}

	manager, backend, err := openManager(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer backend.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mux := http.NewServeMux()
	apiServer := api.NewServer(manager)
	apiServer.Register(mux)

	if cfg.Watch {
		themePath := cfg.ThemePath()
		w := watcher.New(themePath, func() error {
			tree, err := config.LoadTree(themePath)
			if err != nil {
				return err
			}
			return apiServer.Reload(tree)
		})
		if err := w.Start(ctx); err != nil {
			log.Warn("theme watcher disabled", "err", err)
		}
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	printListeningAddresses(cfg.ListenAddr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "err", err)
	}
}

func runConfigGenerate(cmd *cobra.Command, args []string) {
	dir, err := homedir.Expand(dataDir)
	if err != nil {
		log.Fatal("resolve data dir", "err", err)
	}
	dataDirAbs, err := filepath.Abs(dir)
	if err != nil {
		log.Fatal("resolve data dir", "err", err)
	}

	cfg := config.Default()
	cfg.DataDir = dataDirAbs

	cfgPath := filepath.Join(dataDirAbs, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		log.Fatal("config file already exists", "path", cfgPath)
	}

	if err := config.Save(cfg); err != nil {
		log.Fatal("failed to save config", "err", err)
	}

	fmt.Printf("Generated default config file: %s\n", cfgPath)
}

func runCompile(cmd *cobra.Command, args []string) error {
	return withManager(cmd, func(_ config.Config, m *theme.Manager) error {
		css, err := m.Stylesheet()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), css)
		return err
	})
}

func runPreview(cmd *cobra.Command, args []string) error {
	return withManager(cmd, func(_ config.Config, m *theme.Manager) error {
		templates, err := m.PreviewTemplates()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(templates.Export())
	})
}

func runSet(cmd *cobra.Command, args []string) error {
	return withManager(cmd, func(_ config.Config, m *theme.Manager) error {
		return m.SetValue(args[0], args[1])
	})
}

func runReset(cmd *cobra.Command, args []string) error {
	return withManager(cmd, func(_ config.Config, m *theme.Manager) error {
		return m.ResetValue(args[0])
	})
}

func runLint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tree, err := config.LoadTree(cfg.ThemePath())
	if err != nil {
		return err
	}

	issues := theme.Lint(tree)
	for _, issue := range issues {
		fmt.Fprintln(cmd.OutOrStdout(), issue.String())
	}
	if len(issues) > 0 {
		return fmt.Errorf("%d issue(s) in %s", len(issues), cfg.ThemePath())
	}
	log.Info("theme ok", "path", cfg.ThemePath(), "colors", theme.Flatten(tree).Len())
	return nil
}

func runInject(cmd *cobra.Command, args []string) error {
	return withManager(cmd, func(_ config.Config, m *theme.Manager) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		block, err := m.Head()
		if err != nil {
			return err
		}
		return theme.InjectHead(f, cmd.OutOrStdout(), m.Handle(), block)
	})
}

func withManager(cmd *cobra.Command, fn func(config.Config, *theme.Manager) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	manager, backend, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()
	return fn(cfg, manager)
}

func printListeningAddresses(addr string) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		log.Infof("listening on http://%s", addr)
		return
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		// Listening on all interfaces
		addrs, err := net.InterfaceAddrs()
		if err == nil {
			log.Info("listening on:")
			for _, a := range addrs {
				if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
					if ipnet.IP.To4() != nil {
						log.Infof("  http://%s:%s", ipnet.IP.String(), port)
					}
				}
			}
			log.Infof("  http://localhost:%s", port)
			log.Infof("  http://127.0.0.1:%s", port)
		} else {
			log.Infof("listening on http://0.0.0.0:%s", port)
		}
	} else {
		log.Infof("listening on http://%s:%s", host, port)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
