package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/valdisdev1/mortgageProt/internal/app"
	"github.com/valdisdev1/mortgageProt/internal/config"
	"github.com/valdisdev1/mortgageProt/internal/domain"
	"github.com/valdisdev1/mortgageProt/internal/service"
	"github.com/valdisdev1/mortgageProt/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "propertymint",
		Short:         "Tokenize real-estate properties and list minted tokens",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newMintCmd(), newPropertiesCmd())
	return root
}

// setup loads config and builds the application for one command run.
func setup(ctx context.Context, needSigner bool) (*app.App, *config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.New(cfg.Production(), cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}

	if needSigner && cfg.Chain.Backend == config.BackendEthereum && cfg.Chain.PrivateKey == "" {
		key, err := promptSecret("Signer private key: ")
		if err != nil {
			return nil, nil, nil, err
		}
		cfg.Chain.PrivateKey = key
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return a, cfg, log, nil
}

func promptSecret(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("SIGNER_PRIVATE_KEY is not set and stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, label)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}

func newMintCmd() *cobra.Command {
	var (
		form         domain.PropertyForm
		imagePath    string
		documentPath string
	)

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Upload property files and mint a property token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(form.PropertyAddress) == "" {
				return fmt.Errorf("--address is required")
			}
			if form.AppraisedValue == 0 {
				return fmt.Errorf("--value must be greater than zero")
			}

			var err error
			if form.Image, err = readLocalFile(imagePath); err != nil {
				return err
			}
			if form.ValuationDocument, err = readLocalFile(documentPath); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, _, log, err := setup(ctx, true)
			if err != nil {
				return err
			}
			defer a.Close()
			defer log.Sync()

			receipt, err := a.Mint.Submit(ctx, form)
			if err != nil {
				return fmt.Errorf("failed to create property token: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Property tokenized successfully!")
			fmt.Fprintf(out, "  submission: %s\n  tx:         %s\n  metadata:   %s\n",
				receipt.SubmissionID, receipt.TxHash, a.Gateway.URL(receipt.MetadataRef))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&form.PropertyAddress, "address", "", "street address of the property")
	flags.Uint64Var(&form.Bedrooms, "bedrooms", 0, "number of bedrooms")
	flags.Uint64Var(&form.Bathrooms, "bathrooms", 0, "number of bathrooms")
	flags.Uint64Var(&form.AppraisedValue, "value", 0, "appraised value in USD")
	flags.StringVar(&imagePath, "image", "", "path to a property image")
	flags.StringVar(&documentPath, "document", "", "path to a valuation document")

	return cmd
}

func readLocalFile(path string) (*domain.File, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &domain.File{
		Name:        filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

func newPropertiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "properties",
		Short: "List minted properties",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, log, err := setup(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()
			defer log.Sync()

			if _, err := a.Listing.Refresh(cmd.Context(), service.TriggerManual); err != nil {
				return fmt.Errorf("failed to fetch properties: %w", err)
			}

			state := a.Listing.State()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Properties (%s)\n", state.TotalSupply)

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tADDRESS\tBEDS\tBATHS\tVALUE\tIMAGE")
			for i, p := range state.Properties {
				image := a.Gateway.URL(p.ImageHash)
				if strings.HasPrefix(image, "data:") {
					image = "(inline placeholder)"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t$%s\t%s\n",
					i, p.PropertyAddress, p.Bedrooms, p.Bathrooms, p.AppraisedValue, image)
			}
			return w.Flush()
		},
	}
}
