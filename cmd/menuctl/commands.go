package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Lixing-Zhang/storefront-menu/internal/models"
	"github.com/Lixing-Zhang/storefront-menu/internal/propagation"
	"github.com/Lixing-Zhang/storefront-menu/internal/repository"
	"github.com/Lixing-Zhang/storefront-menu/internal/seed"
	"github.com/Lixing-Zhang/storefront-menu/internal/service"
	"github.com/Lixing-Zhang/storefront-menu/pkg/logger"
)

const appName = "menuctl"

// Version is set at build time.
var Version = "dev"

// session is the in-memory catalog every subcommand works against.
type session struct {
	menu        *service.MenuService
	propagation *propagation.Service
}

type rootOptions struct {
	sources  []string
	currency string
	logLevel string
}

func rootCmd() *cobra.Command {
	opts := &rootOptions{}
	sess := &session{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Inspect menu documents offline",
		Long: `menuctl loads one or more YAML menu documents into an in-memory store
and resolves, prices, validates or detaches dishes against them.

Sources are local paths or http(s) URLs; .gz files are decompressed.
Nothing is written back to the documents.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return sess.open(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringSliceVarP(&opts.sources, "menu", "m", nil, "Menu document path or URL (repeatable)")
	cmd.PersistentFlags().StringVar(&opts.currency, "currency", "USD", "Currency for restaurants that do not set one")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		resolveCmd(sess),
		priceCmd(sess),
		validateCmd(sess),
		detachCmd(sess),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)

	return cmd
}

func (s *session) open(cmd *cobra.Command, opts *rootOptions) error {
	if len(opts.sources) == 0 {
		return fmt.Errorf("at least one --menu source is required")
	}

	log := logger.NewWithWriter(cmd.ErrOrStderr(), opts.logLevel)
	store := repository.NewInMemoryStore()

	docs, err := seed.NewLoader(nil, log).LoadFromSources(cmd.Context(), opts.sources)
	if err != nil {
		return err
	}
	if _, err := seed.ApplyAll(cmd.Context(), store, docs); err != nil {
		return err
	}

	s.menu = service.NewMenuService(store, log, strings.ToUpper(opts.currency), nil)
	s.propagation = propagation.NewService(store, log)
	return nil
}

func resolveCmd(sess *session) *cobra.Command {
	var dishID string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print a dish and its effective modifier schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			dish, err := sess.menu.GetDish(cmd.Context(), dishID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dish)
		},
	}

	cmd.Flags().StringVar(&dishID, "dish", "", "Dish id")
	_ = cmd.MarkFlagRequired("dish")
	return cmd
}

func priceCmd(sess *session) *cobra.Command {
	var dishID, size, selection string

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price one unit of a dish and validate the selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := parseSelection(selection)
			if err != nil {
				return err
			}
			preview, err := sess.menu.PreviewPrice(cmd.Context(), dishID, size, sel)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), preview)
		},
	}

	cmd.Flags().StringVar(&dishID, "dish", "", "Dish id")
	cmd.Flags().StringVar(&size, "size", "", "Size variant label (defaults to the first variant)")
	cmd.Flags().StringVar(&selection, "selection", "", "Selection as JSON, or @file to read it from a file")
	_ = cmd.MarkFlagRequired("dish")
	return cmd
}

func validateCmd(sess *session) *cobra.Command {
	var dishID, size, selection string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a selection; exits non-zero when it is not admissible",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := parseSelection(selection)
			if err != nil {
				return err
			}
			preview, err := sess.menu.PreviewPrice(cmd.Context(), dishID, size, sel)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), preview.Validation); err != nil {
				return err
			}
			if !preview.Validation.IsValid {
				return fmt.Errorf("selection is not valid: %d error(s)", len(preview.Validation.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dishID, "dish", "", "Dish id")
	cmd.Flags().StringVar(&size, "size", "", "Size variant label")
	cmd.Flags().StringVar(&selection, "selection", "", "Selection as JSON, or @file to read it from a file")
	_ = cmd.MarkFlagRequired("dish")
	return cmd
}

func detachCmd(sess *session) *cobra.Command {
	var dishID string

	cmd := &cobra.Command{
		Use:   "detach",
		Short: "Show what breaking a dish's inheritance would produce",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := sess.propagation.BreakInheritance(cmd.Context(), dishID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&dishID, "dish", "", "Dish id")
	_ = cmd.MarkFlagRequired("dish")
	return cmd
}

// parseSelection reads a selection from inline JSON or @path. Empty input
// is an empty selection.
func parseSelection(raw string) (models.Selection, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.Selection{}, nil
	}
	data := []byte(raw)
	if strings.HasPrefix(raw, "@") {
		var err error
		data, err = os.ReadFile(strings.TrimPrefix(raw, "@"))
		if err != nil {
			return nil, fmt.Errorf("read selection: %w", err)
		}
	}

	var sel models.Selection
	if err := json.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("parse selection: %w", err)
	}
	return sel, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
