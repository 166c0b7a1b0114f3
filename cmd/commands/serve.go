package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Kariqs/mebel-api/controllers"
	"github.com/Kariqs/mebel-api/initializers"
	"github.com/Kariqs/mebel-api/notify"
	"github.com/Kariqs/mebel-api/routes"
	"github.com/Kariqs/mebel-api/services"
	"github.com/Kariqs/mebel-api/storage"
	"github.com/Kariqs/mebel-api/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var (
	httpPort   string
	httpsPort  string
	disableTLS bool
	skipSync   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and HTTPS servers",
	Long: `Run the API. HTTP always listens on HTTP_PORT; HTTPS listens on HTTPS_PORT
when the TLS certificate and key files exist.

Examples:
  mebel-api serve
  mebel-api serve --http-port 8080 --no-tls`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().StringVar(&httpPort, "http-port", "", "HTTP port (overrides HTTP_PORT)")
	serveCmd.Flags().StringVar(&httpsPort, "https-port", "", "HTTPS port (overrides HTTPS_PORT)")
	serveCmd.Flags().BoolVar(&disableTLS, "no-tls", false, "Do not start the HTTPS server")
	serveCmd.Flags().BoolVar(&skipSync, "skip-migrate", false, "Do not sync the schema on startup")
	rootCmd.AddCommand(serveCmd)
}

// newStorage returns the image store and, for local storage, the directory
// to serve under /uploads.
func newStorage(ctx context.Context, cfg initializers.StorageConfig) (storage.Storage, string, error) {
	switch cfg.Driver {
	case "local":
		store, err := storage.NewLocal(filepath.Join(cfg.UploadDir, "images"), "/uploads/images")
		return store, cfg.UploadDir, err
	case "s3":
		store, err := storage.NewS3(ctx, cfg.S3Bucket, cfg.S3PublicURL)
		return store, "", err
	default:
		return nil, "", fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.Driver)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func runServe(cmd *cobra.Command) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	if httpPort != "" {
		cfg.HTTPPort = httpPort
	}
	if httpsPort != "" {
		cfg.HTTPSPort = httpsPort
	}

	if !skipSync {
		if err := initializers.SyncDatabase(db); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, uploadDir, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	hub := notify.NewHub()
	notifiers := notify.Multi{hub}
	if cfg.OrderWebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhook(cfg.OrderWebhookURL))
	}

	mailCfg := utils.MailConfig{
		From:        cfg.Mail.From,
		Password:    cfg.Mail.Password,
		SMTPHost:    cfg.Mail.SMTPHost,
		SMTPAddress: cfg.Mail.SMTPAddress,
	}
	mailer := utils.NewMailer(mailCfg)
	if !mailCfg.Enabled() {
		log.Println("SMTP is not configured, verification emails are disabled.")
	}

	h := &controllers.Handler{
		Auth: services.NewAuthService(db, services.AuthOptions{
			Secret:           cfg.JWTSecret,
			Mailer:           mailer,
			FrontendURL:      cfg.Mail.FrontendURL,
			AllowAdminSignup: cfg.AllowAdminSignup,
		}),
		Users:   services.NewUserService(db),
		Cart:    services.NewCartService(db),
		Orders:  services.NewOrderService(db, notifiers),
		Catalog: services.NewCatalogService(db, store),
		Uploads: services.NewUploadService(store),
		Hub:     hub,
	}
	handler := routes.NewServer(h, routes.Options{CORSOrigins: cfg.CORSOrigins, UploadDir: uploadDir})

	g, gctx := errgroup.WithContext(ctx)
	servers := []*http.Server{{Addr: ":" + cfg.HTTPPort, Handler: handler}}
	g.Go(func() error {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		return listen(servers[0].ListenAndServe)
	})

	switch {
	case disableTLS:
	case fileExists(cfg.TLSCertFile) && fileExists(cfg.TLSKeyFile):
		tlsServer := &http.Server{Addr: ":" + cfg.HTTPSPort, Handler: handler}
		servers = append(servers, tlsServer)
		g.Go(func() error {
			log.Printf("HTTPS server listening on :%s", cfg.HTTPSPort)
			return listen(func() error { return tlsServer.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile) })
		})
	default:
		log.Printf("TLS files %s / %s not found, HTTPS disabled.", cfg.TLSCertFile, cfg.TLSKeyFile)
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("Shutdown of %s failed: %v", srv.Addr, err)
			}
		}
		return nil
	})

	return g.Wait()
}

func listen(serve func() error) error {
	if err := serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
