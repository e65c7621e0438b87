package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// SSMAPI defines the SSM operations used by the series store.
type SSMAPI interface {
	// GetParameter retrieves a parameter from SSM.
	GetParameter(
		ctx context.Context,
		params *ssm.GetParameterInput,
		optFns ...func(*ssm.Options),
	) (*ssm.GetParameterOutput, error)
}

// SeriesStore reads the invoice document series from AWS SSM Parameter Store.
// Document series rotate (typically yearly), so operators update the parameter
// instead of redeploying with a new environment.
type SeriesStore struct {
	// client is the SSM API client.
	client SSMAPI

	// parameterName is the SSM parameter holding the series identifier.
	parameterName string
}

// Series returns the configured series identifier. A missing parameter is not
// an error - it returns an empty string and the caller keeps its configured
// default.
func (s *SeriesStore) Series(ctx context.Context) (string, error) {
	output, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name: aws.String(s.parameterName),
	})
	if err != nil {
		var notFoundErr *types.ParameterNotFound
		if errors.As(err, &notFoundErr) {
			return "", nil
		}
		return "", fmt.Errorf("getting series parameter from SSM: %w", err)
	}

	if output.Parameter == nil || output.Parameter.Value == nil {
		return "", nil
	}

	return strings.TrimSpace(*output.Parameter.Value), nil
}

// NewSeriesStore creates a new SSM-backed series store.
func NewSeriesStore(client SSMAPI, parameterName string) (*SeriesStore, error) {
	if client == nil {
		return nil, errors.New("ssm client is required")
	}
	if parameterName == "" {
		return nil, errors.New("parameter name is required")
	}

	return &SeriesStore{
		client:        client,
		parameterName: parameterName,
	}, nil
}
