package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/peteski22/donorbridge/internal/accounting"
	"github.com/peteski22/donorbridge/internal/bridge"
	"github.com/peteski22/donorbridge/internal/config"
	"github.com/peteski22/donorbridge/internal/storage"
)

// initService wires configuration, AWS-backed stores, and the accounting
// client into a bridge service. Runs once per cold start; the access token
// cache inside the client lives for the lifetime of the handler instance.
func initService(ctx context.Context, logger *slog.Logger) (*bridge.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	var tokenStore accounting.TokenStore
	if cfg.Accounting.RefreshTokenSecretARN != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}

		tokenStore, err = storage.NewSecretTokenStore(
			secretsmanager.NewFromConfig(awsCfg),
			cfg.Accounting.RefreshTokenSecretARN,
		)
		if err != nil {
			return nil, fmt.Errorf("creating token store: %w", err)
		}

		if cfg.SSM.SeriesParameterName != "" {
			if err := applySeriesOverride(ctx, logger, cfg, ssm.NewFromConfig(awsCfg)); err != nil {
				return nil, err
			}
		}
	} else {
		tokenStore, err = storage.NewStaticTokenStore(cfg.Accounting.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("creating token store: %w", err)
		}
	}

	var opts []accounting.Option
	if cfg.Accounting.TokenURL != "" {
		opts = append(opts, accounting.WithTokenURL(cfg.Accounting.TokenURL))
	}

	client, err := accounting.NewClient(accounting.Config{
		BaseURL:      cfg.Accounting.APIBaseURL,
		ClientID:     cfg.Accounting.ClientID,
		ClientSecret: cfg.Accounting.ClientSecret,
		CompanyID:    cfg.Invoice.CompanyID,
		TokenStore:   tokenStore,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating accounting client: %w", err)
	}

	return bridge.New(bridge.Config{
		Client:          client,
		InvoiceDefaults: cfg.Invoice,
		Logger:          logger,
		WebhookSecret:   cfg.Donorbox.WebhookSecret,
	})
}

// applySeriesOverride replaces the configured invoice series with the value
// from SSM Parameter Store when the parameter exists.
func applySeriesOverride(ctx context.Context, logger *slog.Logger, cfg *config.Settings, client storage.SSMAPI) error {
	store, err := storage.NewSeriesStore(client, cfg.SSM.SeriesParameterName)
	if err != nil {
		return fmt.Errorf("creating series store: %w", err)
	}

	series, err := store.Series(ctx)
	if err != nil {
		return fmt.Errorf("reading series override: %w", err)
	}

	if series != "" && series != cfg.Invoice.SeriesID {
		logger.InfoContext(ctx, "using series override from SSM",
			"configured", cfg.Invoice.SeriesID,
			"override", series)
		cfg.Invoice.SeriesID = series
	}

	return nil
}

// headerValue looks up a header case-insensitively. API Gateway passes
// headers through with whatever casing the sender used.
func headerValue(headers map[string]string, name string) string {
	for key, value := range headers {
		if strings.EqualFold(key, name) {
			return value
		}
	}
	return ""
}

// requestBody returns the raw body bytes, decoding base64 when API Gateway
// has encoded it. The signature covers the exact raw bytes, so decoding must
// happen before verification.
func requestBody(req events.APIGatewayProxyRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}

	decoded, err := base64.StdEncoding.DecodeString(req.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 body: %w", err)
	}
	return decoded, nil
}
