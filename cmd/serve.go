package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/cylscale/config"
	"github.com/ByLCY/cylscale/presets"
	"github.com/ByLCY/cylscale/server"
)

var (
	servePort    string
	serveDB      string
	serveNoStore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve scene, preview, export and preset endpoints over HTTP.
Configuration comes from PORT, ENV, READ_TIMEOUT, WRITE_TIMEOUT, BODY_LIMIT and
CYLSCALE_DB_PATH; flags override the environment.

Routes:
  GET  /health/live, /health/ready
  GET  /defaults
  POST /records/parse                 text/plain or .xlsx body
  POST /scene, /preview, /export, /svg settings JSON body
       ?skip_invalid=1 &debug=1 &bind=1 &ppi=N
  GET|POST /presets, GET|PUT|DELETE /presets/:id
  GET  /presets/:id/scene|preview|export`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (PORT when empty)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "preset database path (CYLSCALE_DB_PATH when empty)")
	serveCmd.Flags().BoolVar(&serveNoStore, "no-presets", false, "disable the preset store and its routes")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if servePort != "" {
		cfg.Port = servePort
	}
	if serveDB != "" {
		cfg.DBPath = serveDB
	}

	var store *presets.Store
	if !serveNoStore {
		s, err := presets.Open(context.Background(), cfg.DBPath)
		if err != nil {
			return fmt.Errorf("打开预设库失败: %w", err)
		}
		defer s.Close()
		store = s
	}

	app := server.New(cfg, store, logger, server.Options{AccessLog: accessLogEnabled(cfg, verbose)})
	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("starting server", "addr", addr, "env", cfg.Environment, "presets", store != nil)
	return app.Listen(addr)
}

// accessLogEnabled 生产环境默认关闭访问日志，--verbose 时总是开启。
func accessLogEnabled(cfg *config.Config, verbose bool) bool {
	return !cfg.IsProduction() || verbose
}
