package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

var (
	ErrMetadataUnavailable = errors.New("metadata unavailable")
)

type Service interface {
	FetchMetadata(token entity.Token) (map[string]interface{}, error)
}

type service struct {
	client    *retryablehttp.Client
	ipfsHosts []string
}

func NewMetadataService(client *retryablehttp.Client, ipfsHosts []string) Service {
	return service{client, ipfsHosts}
}

func NewClient(retries, timeout int) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = time.Duration(timeout) * time.Second
	client.Logger = zapLogger{}

	return client
}

// FetchMetadata resolves the token uri, trying each ipfs gateway in turn for ipfs content.
func (s service) FetchMetadata(token entity.Token) (map[string]interface{}, error) {
	metadataUri, err := token.MetadataUri()
	if err != nil {
		return nil, err
	}

	locations := s.locations(metadataUri)
	if len(locations) == 0 {
		return nil, ErrMetadataUnavailable
	}

	var lastErr error
	for _, uri := range locations {
		md, err := s.fetch(uri)
		if err == nil {
			return md, nil
		}

		zap.L().With(
			zap.Error(err),
			zap.String("collection", token.Collection.String()),
			zap.Uint64("tokenId", token.TokenId),
			zap.String("uri", uri),
		).Debug("Metadata: Location failed")
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %s", ErrMetadataUnavailable, lastErr)
}

func (s service) locations(metadataUri string) []string {
	if !strings.HasPrefix(metadataUri, "ipfs://") {
		return []string{metadataUri}
	}

	path := strings.TrimPrefix(strings.TrimPrefix(metadataUri, "ipfs://"), "ipfs/")
	locations := make([]string, 0, len(s.ipfsHosts))
	for _, host := range s.ipfsHosts {
		locations = append(locations, fmt.Sprintf("%s/ipfs/%s", strings.TrimRight(host, "/"), path))
	}

	return locations
}

func (s service) fetch(uri string) (map[string]interface{}, error) {
	resp, err := s.client.Get(uri)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var md map[string]interface{}
	if err := json.Unmarshal(body, &md); err != nil {
		return nil, err
	}

	return md, nil
}

type zapLogger struct{}

func (zapLogger) Error(msg string, keysAndValues ...interface{}) {
	zap.S().Errorw("Metadata: "+msg, keysAndValues...)
}

func (zapLogger) Info(msg string, keysAndValues ...interface{}) {
	zap.S().Debugw("Metadata: "+msg, keysAndValues...)
}

func (zapLogger) Debug(msg string, keysAndValues ...interface{}) {
	zap.S().Debugw("Metadata: "+msg, keysAndValues...)
}

func (zapLogger) Warn(msg string, keysAndValues ...interface{}) {
	zap.S().Warnw("Metadata: "+msg, keysAndValues...)
}
