package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/codeGROOVE-dev/retry"
)

// DefaultContainer is the blob container used when none is configured.
const DefaultContainer = "bunk-state"

// blobAPI is the subset of *azblob.Client the store uses.
type blobAPI interface {
	UploadBuffer(ctx context.Context, containerName string, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
	DownloadStream(ctx context.Context, containerName string, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
	DeleteBlob(ctx context.Context, containerName string, blobName string, o *azblob.DeleteBlobOptions) (azblob.DeleteBlobResponse, error)
}

// Blob stores each key as a JSON blob in an Azure Storage container.
// Transient failures are retried with jittered backoff.
type Blob struct {
	client    blobAPI
	container string

	attempts uint
	delay    time.Duration
	maxDelay time.Duration
}

var _ Store = (*Blob)(nil)

// NewBlob connects to accountURL (for example
// https://<account>.blob.core.windows.net/) with cred. A nil cred uses
// azidentity.NewDefaultAzureCredential.
func NewBlob(accountURL, container string, cred azcore.TokenCredential) (*Blob, error) {
	if accountURL == "" {
		return nil, errors.New("blob state backend requires an account URL")
	}
	if cred == nil {
		c, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("creating Azure credential: %w", err)
		}
		cred = c
	}

	client, err := azblob.NewClient(accountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}
	return newBlob(client, container), nil
}

func newBlob(client blobAPI, container string) *Blob {
	if container == "" {
		container = DefaultContainer
	}
	return &Blob{
		client:    client,
		container: container,
		attempts:  5,
		delay:     time.Second,
		maxDelay:  30 * time.Second,
	}
}

// Container returns the container name.
func (b *Blob) Container() string {
	return b.container
}

// BlobName returns the blob that holds key.
func (b *Blob) BlobName(key string) string {
	return key + ".json"
}

// Get downloads key, or returns ErrNotFound.
func (b *Blob) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	var data []byte
	err := b.do(ctx, "download", key, func() error {
		resp, err := b.client.DownloadStream(ctx, b.container, b.BlobName(key), nil)
		if err != nil {
			return err
		}
		defer resp.Body.Close() //nolint:errcheck

		data, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("downloading %s: %w", b.BlobName(key), err)
	}
	return data, nil
}

// Put uploads data as key, overwriting any previous value.
func (b *Blob) Put(ctx context.Context, key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	contentType := "application/json"
	err := b.do(ctx, "upload", key, func() error {
		_, err := b.client.UploadBuffer(ctx, b.container, b.BlobName(key), data, &azblob.UploadBufferOptions{
			HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", b.BlobName(key), err)
	}
	return nil
}

// Delete removes key, returning ErrNotFound when it does not exist.
func (b *Blob) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	err := b.do(ctx, "delete", key, func() error {
		_, err := b.client.DeleteBlob(ctx, b.container, b.BlobName(key), nil)
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting %s: %w", b.BlobName(key), err)
	}
	return nil
}

// do runs fn with retries and returns the error from the final attempt.
func (b *Blob) do(ctx context.Context, op, key string, fn func() error) error {
	var lastErr error
	err := retry.Do(
		func() error {
			lastErr = fn()
			return lastErr
		},
		retry.Context(ctx),
		retry.Attempts(b.attempts),
		retry.Delay(b.delay),
		retry.MaxDelay(b.maxDelay),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.RetryIf(isTransient),
		retry.OnRetry(func(n uint, err error) {
			slog.Debug("Retrying blob state operation", "op", op, "key", key, "attempt", n+1, "error", err)
		}),
	)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if lastErr != nil {
		return lastErr
	}
	return err
}

func isNotFound(err error) bool {
	return bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound)
}

// isTransient reports whether err is worth retrying. Throttling and server
// errors are; other HTTP responses and credential failures are not.
func isTransient(err error) bool {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusTooManyRequests ||
			respErr.StatusCode == http.StatusRequestTimeout ||
			respErr.StatusCode >= http.StatusInternalServerError
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var authErr *azidentity.AuthenticationFailedError
	return !errors.As(err, &authErr)
}
