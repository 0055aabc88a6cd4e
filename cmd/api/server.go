package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mw "splitpot/internal/api/middlewares"
	"splitpot/internal/api/routers"
	"splitpot/internal/repositories/sqlconnect"
	"splitpot/pkg/cron"
	"splitpot/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Warn("No .env file found, using process environment")
	}

	utils.InitLogger()

	// balances and amounts go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	if err := sqlconnect.ConnectDb(); err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}
	defer sqlconnect.DB.Close()

	if err := sqlconnect.RunMigrations(sqlconnect.DB); err != nil {
		utils.Logger.Fatal("DB migration failed: ", err)
	}

	if utils.SMTPConfigured() {
		c, err := cron.StartCronJob(sqlconnect.DB)
		if err != nil {
			utils.Logger.Fatal("Cron setup failed: ", err)
		}
		defer c.Stop()
	} else {
		utils.Logger.Warn("SMTP not configured, settlement reminders disabled")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = ":8080"
	}

	cert := os.Getenv("CERT_FILE")
	key := os.Getenv("KEY_FILE")

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	router := routers.MainRouter()
	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.JWTMiddleware, "/", "/metrics", "/user/register", "/user/login")

	secureMux := mw.ApplyMiddlewares(router, mw.RequestLogger, mw.Metrics, mw.SecurityHeaders, jwtMiddleware)

	server := &http.Server{
		Addr:              port,
		Handler:           secureMux,
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			utils.Logger.Errorf("Server shutdown failed: %v", err)
		}
	}()

	utils.Logger.Infof("Server is running on port %s", port)

	var err error
	if cert != "" && key != "" {
		err = server.ListenAndServeTLS(cert, key)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		utils.Logger.Fatal("Error starting the server: ", err)
	}

	utils.Logger.Info("Server stopped")
}
