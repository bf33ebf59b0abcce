// Package secret loads credentials that are kept out of the environment in
// AWS SSM Parameter Store.
package secret

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

const (
	SecretKeyParam          = "secret-key"
	GoogleClientSecretParam = "google-client-secret"
)

type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Target binds a parameter name to the config field it fills.
type Target struct {
	Param string
	Dst   *string
}

// Store reads SecureString parameters below a common path prefix,
// e.g. "/dataroom/secret-key".
type Store struct {
	client SSMClient
	prefix string
}

func NewStore(client SSMClient, prefix string) *Store {
	return &Store{client: client, prefix: strings.TrimRight(prefix, "/")}
}

func (s *Store) path(param string) string {
	return s.prefix + "/" + param
}

func (s *Store) Get(ctx context.Context, param string) (string, error) {
	name := s.path(param)
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("ssm get parameter %q: %w", name, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return "", fmt.Errorf("ssm parameter %q has no value", name)
	}
	return *out.Parameter.Value, nil
}

// Fill loads every target that is still empty. Fields already set keep their
// value. Failed lookups are joined into the returned error; the remaining
// targets are still attempted.
func (s *Store) Fill(ctx context.Context, targets ...Target) error {
	var errs []error
	for _, t := range targets {
		if *t.Dst != "" {
			continue
		}
		v, err := s.Get(ctx, t.Param)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		*t.Dst = v
	}
	return errors.Join(errs...)
}
