package linkdb

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/hlop3z/linkdb/internal/alerr"
	"github.com/hlop3z/linkdb/internal/form"
	"github.com/hlop3z/linkdb/internal/introspect"
	"github.com/hlop3z/linkdb/internal/model"
	"github.com/hlop3z/linkdb/internal/sqlgen"
	"github.com/hlop3z/linkdb/internal/store"
	"github.com/hlop3z/linkdb/internal/validate"
	"github.com/hlop3z/linkdb/internal/web"
)

// Aliases of the engine types the client returns.
type (
	TableOverride = model.TableOverride
	TableInfo     = model.TableInfo
	Table         = model.Table
	Listing       = model.Listing
	Record        = model.Record
	LinkSet       = model.LinkSet
	Entry         = model.Entry
	Form          = form.Form
	FormOption    = form.Option
	Result        = form.Result
	ServerConfig  = web.Config
)

// Client is the main entry point of linkdb. It holds one connection and
// the catalog inferred from it.
//
// Example:
//
//	client, err := linkdb.New(ctx,
//	    linkdb.WithDatabaseURL("postgres://localhost/library"),
//	    linkdb.WithOwnerKey("user_id"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	rows, err := client.Rows(ctx, "book", nil)
type Client struct {
	db       *store.DB
	env      *model.Env
	messages *alerr.Catalog
	config   *Config
	ownsDB   bool
}

// New connects, introspects the schema and classifies every table.
// A schema that does not follow the naming conventions is an error.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &Config{
		Timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := validate.Settings(cfg.OwnerKey, cfg.Tables); err != nil {
		return nil, err
	}

	var messages *alerr.Catalog
	if cfg.Messages != "" {
		m, err := alerr.LoadCatalog(cfg.Messages)
		if err != nil {
			return nil, err
		}
		messages = m
	}

	db, owns, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		db:       db,
		messages: messages,
		config:   cfg,
		ownsDB:   owns,
	}
	if err := c.load(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func connect(ctx context.Context, cfg *Config) (*store.DB, bool, error) {
	if cfg.db == nil {
		db, err := store.Open(ctx, store.Config{
			URL:     cfg.DatabaseURL,
			Dialect: cfg.Dialect,
			Driver:  cfg.Driver,
			Timeout: cfg.Timeout,
		}, cfg.Logger)
		return db, true, err
	}

	d, ok := sqlgen.ParseDialect(cfg.Dialect)
	if !ok {
		return nil, false, alerr.Newf(alerr.ErrConfigInvalid, "dialect '%s' is required with an existing connection", cfg.Dialect).
			WithHelp("pass linkdb.WithDialect(\"sqlite\"), \"postgres\" or \"mysql\"")
	}
	return store.New(cfg.db, d, cfg.Logger), false, nil
}

func (c *Client) load(ctx context.Context) error {
	ctx, cancel := c.context(ctx)
	defer cancel()

	in, err := introspect.New(c.db.SQL(), c.db.Dialect())
	if err != nil {
		return err
	}
	cat, err := model.Load(ctx, in, c.config.Tables)
	if err != nil {
		return err
	}
	if err := validate.Overrides(c.config.Tables, cat); err != nil {
		return err
	}

	c.env = &model.Env{
		Catalog:  cat,
		Exec:     c.db,
		OwnerKey: c.config.OwnerKey,
		Logger:   c.config.Logger,
		Now:      c.config.Now,
	}
	c.env.Log().Info("schema loaded",
		"dialect", c.db.Dialect().String(),
		"data", len(cat.DataTables()),
		"links", len(cat.LinkTables()),
	)
	return nil
}

// Reload introspects the database again and replaces the catalog.
//
// Reload must not run concurrently with other calls on the same Client.
// Clients returned by As and servers built by Handler or Server before the
// reload keep the catalog they were created with; build them again to pick
// up the new one.
func (c *Client) Reload(ctx context.Context) error {
	return c.load(ctx)
}

// Close closes the database connection unless it was supplied with WithDB.
func (c *Client) Close() error {
	if c.db != nil && c.ownsDB {
		return c.db.Close()
	}
	return nil
}

// As returns a client that runs every operation as the given user. Rows
// of tables carrying the owner column are then scoped to that user.
// An empty id returns an unscoped client.
func (c *Client) As(userID string) *Client {
	cp := *c
	if userID == "" {
		cp.env = c.env.WithPrincipal(nil)
	} else {
		cp.env = c.env.WithPrincipal(&model.Principal{ID: userID})
	}
	return &cp
}

// Env returns the services the engine runs with.
func (c *Client) Env() *model.Env {
	return c.env
}

// Dialect returns the database dialect name.
func (c *Client) Dialect() string {
	return c.db.Dialect().String()
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return *c.config
}

// Messages returns the loaded message catalog, or nil.
func (c *Client) Messages() *alerr.Catalog {
	return c.messages
}

// Describe rewrites err with the message catalog, if one is loaded.
func (c *Client) Describe(err error) error {
	return c.messages.Apply(err)
}

// context returns a context bounded by the configured timeout.
func (c *Client) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.config.Timeout)
}

// Tables describes every table in the catalog.
func (c *Client) Tables() []TableInfo {
	return c.env.Catalog.Describe()
}

// Table returns one table of the catalog.
func (c *Client) Table(name string) (*Table, error) {
	return c.env.Catalog.Table(name)
}

// Rows lists the rows of a table. Every entry of filter is an equality
// condition on a column.
func (c *Client) Rows(ctx context.Context, table string, filter map[string]string) (*Listing, error) {
	ctx, cancel := c.context(ctx)
	defer cancel()

	var f model.Filter
	for col, v := range filter {
		f = append(f, sqlgen.Eq(col, v))
	}
	return c.env.GetRows(ctx, table, f)
}

// Row returns one row of a data table. A missing row is ErrRowNotFound.
func (c *Client) Row(ctx context.Context, table string, id int64) (Record, error) {
	ctx, cancel := c.context(ctx)
	defer cancel()

	row, err := c.env.GetRow(ctx, table, id)
	if err != nil {
		return nil, err
	}
	if len(row) == 0 {
		return nil, alerr.Newf(alerr.ErrRowNotFound, "no row %d in table '%s'", id, table).
			WithTable(table).
			With("id", id).
			WithArgs(table)
	}
	return row, nil
}

// Links returns the rows linked to one row, grouped by junction.
func (c *Client) Links(ctx context.Context, table string, id int64) ([]LinkSet, error) {
	ctx, cancel := c.context(ctx)
	defer cancel()
	return c.env.GetLinks(ctx, table, id)
}

// View returns a label/value view of a row, followed by the rows linked to
// it when withLinks is set.
func (c *Client) View(ctx context.Context, table string, id int64, withLinks bool) ([]Entry, error) {
	ctx, cancel := c.context(ctx)
	defer cancel()
	if withLinks {
		return c.env.RowAndLinksView(ctx, table, id, true)
	}
	return c.env.RowView(ctx, table, id, true)
}

// Delete removes a row, its junction rows and the rows linked to it.
func (c *Client) Delete(ctx context.Context, table string, id int64) error {
	ctx, cancel := c.context(ctx)
	defer cancel()
	return c.env.DeleteRowAndLinks(ctx, table, id)
}

// Submit parses and processes a form post. On failure the returned Result
// reports the rows written before the failing entry.
func (c *Client) Submit(ctx context.Context, values url.Values) (*Result, error) {
	sub, err := form.ParseSubmission(values)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.context(ctx)
	defer cancel()
	return form.Process(ctx, c.env, sub)
}

// NewForm starts a form builder bound to the client.
func (c *Client) NewForm(opts ...FormOption) *form.Builder {
	return form.NewBuilder(c.env, opts...)
}

// Handler returns the HTTP surface serving this client's catalog.
func (c *Client) Handler(cfg ServerConfig) http.Handler {
	return c.Server(cfg).Handler()
}

// Server returns the HTTP server for this client's catalog.
func (c *Client) Server(cfg ServerConfig) *web.Server {
	return web.New(c.env, c.messages, cfg, c.config.Logger)
}
