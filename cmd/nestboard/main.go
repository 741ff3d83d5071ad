package main

import (
	"fmt"
	"log"

	"nestboard/internal/config"
	"nestboard/internal/gateway"
	"nestboard/internal/guard"
	"nestboard/internal/oauth"
	"nestboard/internal/service"
	"nestboard/internal/session"
	"nestboard/internal/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// app owns the wired object graph every command works against.
type app struct {
	cfg      *config.Config
	nav      *termNavigator
	tokens   *storage.TokenStore
	flash    *storage.FlashNotice
	sessions *session.Manager
	gate     *guard.AuthGate
	auth     *oauth.Authorizer

	login        service.LoginService
	link         service.LinkService
	confirm      service.ConfirmService
	registration service.RegistrationService
	recovery     service.RecoveryService
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	return newRootCmd(a).Execute()
}

func newApp(cfg *config.Config) (*app, error) {
	durable, err := storage.NewFileTier(cfg.Storage.StateFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open state file: %w", err)
	}
	sessionTier := storage.NewMemoryTier()

	nav := newTermNavigator()
	tokens := storage.NewTokenStore(durable, sessionTier)
	flash := storage.NewFlashNotice(sessionTier)

	gw := gateway.NewClient(cfg.API.BaseURL, cfg.API.Timeout, tokens, flash, nav)
	sessions := session.NewManager(gw, tokens)
	auth := oauth.NewAuthorizer(cfg.API.BaseURL, nav)

	return &app{
		cfg:      cfg,
		nav:      nav,
		tokens:   tokens,
		flash:    flash,
		sessions: sessions,
		gate:     guard.NewAuthGate(tokens, nav),
		auth:     auth,

		login:        service.NewLoginService(gw, sessions, tokens, nav),
		link:         service.NewLinkService(gw, sessions, tokens, flash, nav),
		confirm:      service.NewConfirmService(gw, sessions, tokens, flash, nav, auth),
		registration: service.NewRegistrationService(gw, nav),
		recovery:     service.NewRecoveryService(gw, nav),
	}, nil
}
