package cli

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"invoice-gateway/internal/invoice"
	"invoice-gateway/internal/kafka"
	"invoice-gateway/internal/message"
)

func errMissing(what, flag string) error {
	return errors.Errorf("%s is not configured, use %s or the config file", what, flag)
}

func newGetCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "get <invoice-id>",
		Short: "Fetch a single invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, cfg, err := env.gateway(cmd)
			if err != nil {
				return err
			}

			record, err := gateway.FetchByID(cmd.Context(), cfg.ServerURL, cfg.StoreID, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), record)
		},
	}
}

func newListCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the invoices of the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gateway, cfg, err := env.gateway(cmd)
			if err != nil {
				return err
			}

			records, err := gateway.ListRecent(cmd.Context(), cfg.ServerURL, cfg.StoreID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), records)
		},
	}
}

func newCreateCmd(env *environment) *cobra.Command {
	var req invoice.CreateRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an invoice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gateway, cfg, err := env.gateway(cmd)
			if err != nil {
				return err
			}

			record, err := gateway.Create(cmd.Context(), cfg.ServerURL, cfg.StoreID, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), record)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Amount, "amount", "", "invoice amount")
	flags.StringVar(&req.Currency, "currency", "", "currency code, e.g. EUR")
	flags.StringVar(&req.OrderID, "order-id", "", "order ID")
	flags.StringVar(&req.OrderURL, "order-url", "", "order URL")
	flags.StringVar(&req.BuyerName, "buyer-name", "", "buyer name")
	flags.StringVar(&req.BuyerEmail, "buyer-email", "", "buyer email")
	flags.StringVar(&req.BuyerCountry, "buyer-country", "", "buyer country")
	flags.StringVar(&req.BuyerZip, "buyer-zip", "", "buyer postal code")
	flags.StringVar(&req.BuyerState, "buyer-state", "", "buyer state")
	flags.StringVar(&req.BuyerCity, "buyer-city", "", "buyer city")
	flags.StringVar(&req.BuyerAddress1, "buyer-address1", "", "buyer address line 1")
	flags.StringVar(&req.BuyerAddress2, "buyer-address2", "", "buyer address line 2")
	flags.StringVar(&req.BuyerPhone, "buyer-phone", "", "buyer phone")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("currency")

	return cmd
}

func newSetStatusCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <invoice-id> <status>",
		Short: "Mark an invoice, e.g. as Invalid or Settled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, cfg, err := env.gateway(cmd)
			if err != nil {
				return err
			}

			record, err := gateway.SetStatus(cmd.Context(), cfg.ServerURL, cfg.StoreID, args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), record)
		},
	}
}

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "Print the invoice output fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, field := range invoice.OutputFields {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-34s %-9s %s\n", field.Key, field.Type, field.Label); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newSampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Print a sample invoice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), invoice.Sample())
		},
	}
}

func newWatchCmd(env *environment) *cobra.Command {
	var brokers, groupID string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print invoice events published by the webhook trigger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := env.kafka()
			if err != nil {
				return err
			}
			if brokers != "" {
				cfg.Broker.URL = brokers
			}
			if cfg.Broker.URL == "" {
				return errMissing("Kafka broker", "--brokers")
			}

			reader := kafka.NewReader(cfg, groupID)
			defer reader.Close()

			out := cmd.OutOrStdout()
			err = kafka.ReadInvoiceEvents(cmd.Context(), reader, func(_ context.Context, e message.InvoiceEvent) error {
				return printJSON(out, e)
			}, env.logger(cmd))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&brokers, "brokers", "", "comma separated Kafka brokers (overrides config)")
	cmd.Flags().StringVar(&groupID, "group", "invoicectl", "Kafka consumer group")
	return cmd
}
