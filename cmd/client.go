package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/kickit-app/kickit/internal/config"
	"github.com/kickit-app/kickit/internal/kicks"
	"github.com/kickit-app/kickit/internal/session"
	"github.com/kickit-app/kickit/pkg/kickit"
)

var errNotSignedIn = errors.New("not signed in, run `kickit signin` first")

// cliSession bundles what a terminal command needs to talk to the API.
type cliSession struct {
	cfg     *config.Config
	storage *session.DBStorage
	store   *session.Store
	client  *kickit.Client
}

// openSession loads the config and restores the session saved by signin.
func openSession() (*cliSession, error) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		return nil, err
	}

	storage, err := session.OpenDBStorage(cfg.Client.SessionDB)
	if err != nil {
		return nil, err
	}
	store, err := session.Open(storage)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}
	log.Debug("session restored", "path", cfg.Client.SessionDB, "state", store.State())

	return &cliSession{
		cfg:     cfg,
		storage: storage,
		store:   store,
		client:  kickit.New(cfg),
	}, nil
}

func (s *cliSession) Close() {
	if err := s.storage.Close(); err != nil {
		log.Warn("failed to close session database", "error", err)
	}
}

func (s *cliSession) auth() *kickit.AuthService {
	return s.client.Auth(s.store)
}

// kicks returns the kick service of the signed-in user. The terminal client
// runs one command per process, so it does not cache.
func (s *cliSession) kicks() (*kicks.Service, error) {
	user, ok := s.store.User()
	if !ok {
		return nil, errNotSignedIn
	}
	return kicks.New(s.client.Kicks(s.store), nil, user.ID), nil
}

// userError turns API errors into the message a user should read.
func userError(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var apiErr *kickit.Error
	if errors.As(err, &apiErr) {
		if apiErr.Kind == kickit.KindUnauthorized && apiErr.Message == kickit.MsgSessionExpired {
			return fmt.Errorf("%s Run `kickit signin`", apiErr.Message)
		}
		return errors.New(kickit.Message(err, fallback))
	}
	return err
}
