package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"roleapi/pkg/cache"
	"roleapi/pkg/events"
	"roleapi/pkg/rolestore"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "roleapi",
		Short:        "Role registry service",
		SilenceUsage: true,
		RunE:         serveCommand, // serve when no subcommand is given
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE:  serveCommand,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Migrate the roles table, seed master roles and exit",
			RunE:  migrateCommand,
		},
		newTokenCommand(),
	)
	return root
}

const (
	subjectFlag = "subject"
	ttlFlag     = "ttl"
)

var tokenFlags = map[string]cobraflags.Flag{
	subjectFlag: &cobraflags.StringFlag{
		Name:  subjectFlag,
		Value: "",
		Usage: "Token subject (required)",
	},
	ttlFlag: &cobraflags.StringFlag{
		Name:  ttlFlag,
		Value: "24h",
		Usage: "Token lifetime, e.g. 30m or 24h",
	},
}

func newTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for the write endpoints",
		RunE:  tokenCommand,
	}
	cobraflags.RegisterMap(cmd, tokenFlags)
	return cmd
}

func tokenCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ttl, err := time.ParseDuration(tokenFlags[ttlFlag].GetString())
	if err != nil {
		return fmt.Errorf("invalid --%s: %w", ttlFlag, err)
	}
	tok, err := issueToken(cfg.JWTSecret, tokenFlags[subjectFlag].GetString(), ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}

func migrateCommand(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.AutoMigrate, cfg.SeedRoles = true, true
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	if err := prepareSchema(context.Background(), store, cfg, log, true); err != nil {
		return err
	}
	log.Info("migration and seeding completed")
	return nil
}

func serveCommand(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	if string(cfg.JWTSecret) == devJWTSecret {
		log.Warn("JWT_SECRET not set, using development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := initDB(ctx, cfg, log)
	if err != nil {
		return err
	}

	var repo rolestore.Repository = store
	if len(cfg.RedisAddrs) > 0 {
		c := cache.New(cfg.RedisAddrs, cfg.RedisPassword, cfg.RedisCluster)
		defer c.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := c.Ping(pingCtx); err != nil {
			log.Warn("redis unavailable, serving without cache", zap.Error(err))
		} else {
			repo = rolestore.NewCached(store, c, cfg.CacheTTL, log)
			log.Info("role cache enabled", zap.Strings("addrs", cfg.RedisAddrs), zap.Duration("ttl", cfg.CacheTTL))
		}
		cancel()
	}

	var pub events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		log.Info("role events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}
	defer pub.Close()

	srv := &server{roles: repo, events: pub, log: log, jwtSecret: cfg.JWTSecret}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	srv.setupRoutes(r)

	httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.ListenAddr))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
