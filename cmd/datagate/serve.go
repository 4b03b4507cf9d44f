package datagate

import (
	"cmp"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/datagate-io/datagate/pkg/httputil"
	mw "github.com/datagate-io/datagate/pkg/httputil/middleware"
	"github.com/datagate-io/datagate/pkg/metrics"
	"github.com/datagate-io/datagate/pkg/pg"
	"github.com/datagate-io/datagate/pkg/qb"
	"github.com/datagate-io/datagate/pkg/repo"
	"github.com/datagate-io/datagate/pkg/rest"
	"github.com/datagate-io/datagate/pkg/view"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP query server",
	Long:  `Starts the server exposing tables and stored views over HTTP`,
	Run:   runServer,
}

func init() {
	f := serveCmd.Flags()
	f.StringP("pg.connString", "c", "", "PostgreSQL connection string")
	f.StringP("server.listenAddr", "l", "", "server listen address")
	f.String("oidc.clientID", "", "OIDC client ID")
	f.String("oidc.issuer", "", "OIDC issuer URL")
	f.Bool("metrics.enabled", false, "expose Prometheus metrics")

	viper.BindPFlags(f)
	rootCmd.AddCommand(serveCmd)
}

func runServer(cmd *cobra.Command, args []string) {
	if cfg == nil {
		log.Fatal("Configuration not loaded")
	}

	connString := cmp.Or(
		viper.GetString("pg.connString"),
		os.Getenv("DATAGATE_PG_CONN_STRING"),
		cfg.PG.ConnString,
	)
	if connString == "" {
		log.Fatal("PostgreSQL connection string required")
	}

	if addr := viper.GetString("server.listenAddr"); addr != "" {
		cfg.Server.ListenAddr = addr
	}

	logger, err := newLogger(logLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pg.Connect(ctx, connString, cfg.PG.ConnectTimeout)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pool.Close()

	client := qb.NewSQLClient(pool)
	repository := repo.New(client, logger)
	viewEngine := view.NewEngine(client, view.NewPGStore(pool), logger)

	var routerOpts []httputil.RouterOptions
	if cfg.Server.TLSEnabled {
		routerOpts = append(routerOpts, httputil.WithTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile))
	}

	server := rest.NewServer(repository, viewEngine, logger, routerOpts...)

	server.Use(
		mw.RequestID,
		mw.CORSWithOptions(nil),
		mw.Metrics,
	)

	oidcClientID := cmp.Or(os.Getenv("DATAGATE_OIDC_CLIENT_ID"), cfg.OIDC.ClientID)
	oidcIssuer := cmp.Or(os.Getenv("DATAGATE_OIDC_ISSUER"), cfg.OIDC.Issuer)
	if oidcClientID != "" && oidcIssuer != "" {
		server.Use(mw.VerifyOIDCToken(mw.OIDCProviderConfig{
			ClientID: oidcClientID,
			Issuer:   oidcIssuer,
		}, len(cfg.BasicAuth) == 0))
	}

	if len(cfg.BasicAuth) > 0 {
		server.Use(mw.VerifyBasicAuth(mw.BasicAuthCreds(cfg.BasicAuth)))
	}

	if logLevel != "none" {
		server.Use(mw.LoggerWithOptions(&mw.LoggerOptions{Logger: logger}))
	}

	var wg sync.WaitGroup
	if cfg.Metrics.Enabled || viper.GetBool("metrics.enabled") {
		metrics.StartPrometheusServer(ctx, &wg, &metrics.PromServerOpts{Addr: cfg.Metrics.Addr})
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(cfg.Server.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	logger.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	wg.Wait()

	logger.Info("server stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "none" {
		return zap.NewNop(), nil
	}
	zapLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zapLevel
	return cfg.Build()
}
