package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/debtdesk/debtdesk/internal/cli/client"
	"github.com/debtdesk/debtdesk/internal/cli/kvstore"
	"github.com/debtdesk/debtdesk/internal/cli/router"
	"github.com/debtdesk/debtdesk/internal/cli/session"
	"github.com/debtdesk/debtdesk/internal/config"
)

var errNotAuthenticated = errors.New("not authenticated. Please run 'debtdesk login' first")

// Env is everything a command needs: the session store, the router guarding
// navigation and the API client reading its token from the session
type Env struct {
	Config  *config.Config
	Log     zerolog.Logger
	KV      kvstore.Store
	Session *session.Store
	Router  *router.Router
	API     *client.Client
	Out     io.Writer

	// openURL opens a URL in the user's browser
	openURL func(string) error
}

// Loader builds the Env lazily so commands that need no session skip it
type Loader func(ctx context.Context) (*Env, error)

// NewEnv wires the session store, router and API client together
func NewEnv(ctx context.Context, cfg *config.Config, log zerolog.Logger, out io.Writer) (*Env, error) {
	kv, err := kvstore.Open(kvstore.Options{
		Backend:    cfg.Storage.Backend,
		Path:       cfg.Storage.Path,
		Passphrase: cfg.Storage.Passphrase,
	})
	if err != nil {
		return nil, err
	}

	sess, err := session.New(ctx, kv, log)
	if err != nil {
		_ = kvstore.Close(kv)
		return nil, err
	}

	rt := router.New(router.DefaultRoutes(), sess, log)
	api := client.New(cfg.API.URL, sess, log)
	sess.Attach(api, rt)

	if out == nil {
		out = os.Stdout
	}

	return &Env{
		Config:  cfg,
		Log:     log,
		KV:      kv,
		Session: sess,
		Router:  rt,
		API:     api,
		Out:     out,
		openURL: openBrowser,
	}, nil
}

// Close releases the persistence backend
func (e *Env) Close() error {
	return kvstore.Close(e.KV)
}

// navigate runs the route guard for path. A redirect to the login route
// means the command cannot proceed.
func (e *Env) navigate(ctx context.Context, path string) (router.Location, error) {
	loc, err := e.Router.Push(ctx, path)
	if err != nil {
		return router.Location{}, err
	}
	if loc.Redirected {
		return loc, errNotAuthenticated
	}
	return loc, nil
}

// check turns a 401 from a business call into a logout
func (e *Env) check(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if client.IsUnauthorized(err) {
		e.Log.Warn().Err(err).Msg("access token rejected, logging out")
		if logoutErr := e.Session.Logout(ctx); logoutErr != nil {
			return errors.Join(err, logoutErr)
		}
		return fmt.Errorf("session expired. Please run 'debtdesk login' again: %w", err)
	}
	return err
}
