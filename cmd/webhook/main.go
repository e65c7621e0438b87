// Package main provides the Lambda handler entry point for donorbridge,
// receiving Donorbox webhooks through API Gateway.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/peteski22/donorbridge/internal/bridge"
	"github.com/peteski22/donorbridge/internal/donorbox"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	svc, err := initService(context.Background(), logger)
	if err != nil {
		logger.Error("initializing service", "error", err)
		os.Exit(1)
	}

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return handleRequest(ctx, svc, req), nil
	})
}

// handleRequest adapts an API Gateway request to the bridge's transport-neutral
// request and back.
func handleRequest(ctx context.Context, svc *bridge.Service, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	body, err := requestBody(req)
	if err != nil {
		return events.APIGatewayProxyResponse{
			Body:       "invalid request body encoding",
			Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
			StatusCode: 400,
		}
	}

	resp := svc.HandleWebhook(ctx, bridge.Request{
		Body:      body,
		Method:    req.HTTPMethod,
		Signature: headerValue(req.Headers, donorbox.SignatureHeader),
	})

	return events.APIGatewayProxyResponse{
		Body:       resp.Body,
		Headers:    map[string]string{"Content-Type": resp.ContentType},
		StatusCode: resp.StatusCode,
	}
}
