package cli

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"invoice-gateway/internal/config"
	"invoice-gateway/internal/invoice"
	"invoice-gateway/internal/transport"
)

type options struct {
	configPath string
	serverURL  string
	storeID    string
	apiKey     string
	verbose    bool
}

// NewRootCmd builds the invoicectl command tree. newGateway lets tests replace
// the HTTP transport; nil uses the configured Greenfield server.
func NewRootCmd(newGateway func(cfg config.Greenfield, logger *slog.Logger) *invoice.Gateway) *cobra.Command {
	opts := &options{}
	if newGateway == nil {
		newGateway = func(cfg config.Greenfield, logger *slog.Logger) *invoice.Gateway {
			return invoice.NewGateway(transport.NewHTTP(cfg, logger), logger)
		}
	}

	root := &cobra.Command{
		Use:           "invoicectl",
		Short:         "Fetch, create and update invoices on a Greenfield server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "directory containing config.yaml")
	root.PersistentFlags().StringVar(&opts.serverURL, "server-url", "", "Greenfield server URL (overrides config)")
	root.PersistentFlags().StringVar(&opts.storeID, "store", "", "store ID (overrides config)")
	root.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "Greenfield API key (overrides config)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	env := &environment{opts: opts, newGateway: newGateway}

	root.AddCommand(
		newGetCmd(env),
		newListCmd(env),
		newCreateCmd(env),
		newSetStatusCmd(env),
		newFieldsCmd(),
		newSampleCmd(),
		newWatchCmd(env),
	)
	return root
}

// environment resolves configuration lazily so that commands which do not
// talk to a server work without a config file.
type environment struct {
	opts       *options
	newGateway func(cfg config.Greenfield, logger *slog.Logger) *invoice.Gateway
}

func (e *environment) greenfield() (config.Greenfield, error) {
	var cfg config.Greenfield
	if e.opts.configPath != "" {
		loaded, err := config.LoadConfig(e.opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded.Greenfield
	} else {
		cfg.ServerURL = config.GetString("GREENFIELD_SERVER_URL", "")
		cfg.APIKey = config.GetString("GREENFIELD_API_KEY", "")
		cfg.StoreID = config.GetString("GREENFIELD_STORE_ID", "")
	}

	if e.opts.serverURL != "" {
		cfg.ServerURL = e.opts.serverURL
	}
	if e.opts.storeID != "" {
		cfg.StoreID = e.opts.storeID
	}
	if e.opts.apiKey != "" {
		cfg.APIKey = e.opts.apiKey
	}

	if cfg.ServerURL == "" {
		return cfg, errMissing("server URL", "--server-url")
	}
	if cfg.StoreID == "" {
		return cfg, errMissing("store ID", "--store")
	}
	return cfg, nil
}

func (e *environment) kafka() (config.Kafka, error) {
	if e.opts.configPath != "" {
		loaded, err := config.LoadConfig(e.opts.configPath)
		if err != nil {
			return config.Kafka{}, err
		}
		return loaded.Kafka, nil
	}

	var cfg config.Kafka
	cfg.Broker.URL = config.GetString("KAFKA_BROKER_URL", "")
	cfg.Topic.InvoiceEvents = config.GetString("KAFKA_TOPIC_INVOICE_EVENTS", "invoice-events")
	return cfg, nil
}

func (e *environment) gateway(cmd *cobra.Command) (*invoice.Gateway, config.Greenfield, error) {
	cfg, err := e.greenfield()
	if err != nil {
		return nil, cfg, err
	}
	return e.newGateway(cfg, e.logger(cmd)), cfg, nil
}

func (e *environment) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelError
	if e.opts.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
