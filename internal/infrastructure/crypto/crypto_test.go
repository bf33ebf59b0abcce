package crypto

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretBox_RoundTrip(t *testing.T) {
	ctx := context.Background()
	sb, err := NewSecretBox("app-secret")
	require.NoError(t, err)

	ct, err := sb.Encrypt(ctx, "ya29.access-token")
	require.NoError(t, err)
	assert.NotContains(t, ct, "ya29")

	again, err := sb.Encrypt(ctx, "ya29.access-token")
	require.NoError(t, err)
	assert.NotEqual(t, ct, again, "nonce must differ per call")

	pt, err := sb.Decrypt(ctx, ct)
	require.NoError(t, err)
	assert.Equal(t, "ya29.access-token", pt)
}

func TestSecretBox_Rejects(t *testing.T) {
	ctx := context.Background()
	sb, err := NewSecretBox("app-secret")
	require.NoError(t, err)
	other, err := NewSecretBox("other-secret")
	require.NoError(t, err)

	ct, err := sb.Encrypt(ctx, "token")
	require.NoError(t, err)

	_, err = other.Decrypt(ctx, ct)
	assert.ErrorIs(t, err, ErrMalformedCiphertext)

	_, err = sb.Decrypt(ctx, "%%%")
	assert.ErrorIs(t, err, ErrMalformedCiphertext)

	_, err = sb.Decrypt(ctx, "c2hvcnQ")
	assert.ErrorIs(t, err, ErrMalformedCiphertext)

	_, err = NewSecretBox("")
	assert.Error(t, err)
}

type fakeKMS struct {
	keyID string
	fail  bool
}

func (f *fakeKMS) Encrypt(_ context.Context, in *kms.EncryptInput, _ ...func(*kms.Options)) (*kms.EncryptOutput, error) {
	if f.fail {
		return nil, errors.New("AccessDeniedException")
	}
	f.keyID = aws.ToString(in.KeyId)
	return &kms.EncryptOutput{CiphertextBlob: append([]byte("kms:"), in.Plaintext...)}, nil
}

func (f *fakeKMS) Decrypt(_ context.Context, in *kms.DecryptInput, _ ...func(*kms.Options)) (*kms.DecryptOutput, error) {
	if f.fail {
		return nil, errors.New("AccessDeniedException")
	}
	return &kms.DecryptOutput{Plaintext: bytes.TrimPrefix(in.CiphertextBlob, []byte("kms:"))}, nil
}

func TestKMSService(t *testing.T) {
	ctx := context.Background()
	client := &fakeKMS{}
	s := NewKMSService(client, "alias/dataroom-tokens")

	ct, err := s.Encrypt(ctx, "refresh")
	require.NoError(t, err)
	assert.Equal(t, "alias/dataroom-tokens", client.keyID)

	pt, err := s.Decrypt(ctx, ct)
	require.NoError(t, err)
	assert.Equal(t, "refresh", pt)

	_, err = s.Decrypt(ctx, "not base64!")
	assert.ErrorIs(t, err, ErrMalformedCiphertext)

	client.fail = true
	_, err = s.Encrypt(ctx, "refresh")
	assert.ErrorContains(t, err, "kms encrypt")
}
