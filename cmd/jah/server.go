package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jah/internal/config"
	"jah/internal/server"
)

var (
	serverURL  string
	serverHost string
	serverPort int
)

var serverCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"serve"},
	Short:   "Run the jah development web server",
	Long: `Run the jah development web server.

The bundle is rebuilt from source on every request to its URL. Other paths
are served from ./public, then from the project's resource directories.

Examples:
  jah server                    # http://localhost:4000/
  jah server -p 8080            # different port
  jah server -u js/app.js       # serve the bundle at /js/app.js`,
	RunE: runServer,
}

func init() {
	serverCmd.Flags().StringVarP(&serverURL, "url", "u", "",
		"URL to serve the JavaScript as (default: output defined in the config file)")
	serverCmd.Flags().StringVarP(&serverHost, "host", "H", "",
		"Hostname or IP address to listen on (default: localhost)")
	serverCmd.Flags().IntVarP(&serverPort, "port", "p", 0,
		"Port to listen on (default: 4000)")
	rootCmd.AddCommand(serverCmd)
}

// listenAddr applies flag values over the configured host and port.
func listenAddr(cfg config.ServerConfig, host string, port int) string {
	if host == "" {
		host = cfg.Host
	}
	if port == 0 {
		port = cfg.Port
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func runServer(cmd *cobra.Command, args []string) error {
	proj, err := loadProject(configFlag, os.Stderr)
	if err != nil {
		return err
	}
	defer proj.closeLog()
	logger := proj.logger

	comp, err := proj.compiler()
	if err != nil {
		return err
	}

	public, err := staticRoot()
	if err != nil {
		return err
	}

	resolver := server.NewResolver(server.ResolverConfig{
		OutputTarget: proj.cfg.OutputTarget(serverURL),
		StaticRoot:   public,
		Compiler:     comp,
		Logger:       logger,
	})

	srvCfg := server.DefaultConfig()
	srvCfg.Compress = proj.cfg.Server.Compress

	addr := listenAddr(proj.cfg.Server, serverHost, serverPort)
	srv := server.NewServer(addr, resolver, logger, srvCfg)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	bold := color.New(color.Bold)
	bold.Fprintf(cmd.OutOrStdout(), "Serving from http://%s/\n", srv.Addr())
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", "error", err.Error())
			return err
		}
	case sig := <-shutdown:
		logger.Info("Received shutdown signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Error during shutdown", "error", err.Error())
			return err
		}
	}

	return nil
}
