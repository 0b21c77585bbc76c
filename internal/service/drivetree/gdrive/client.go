// Package gdrive is the Google Drive implementation of the tree client.
package gdrive

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"materihub/internal/config"
	"materihub/internal/domain"
	models "materihub/internal/domain/models/drivetree"
	svc "materihub/internal/domain/services/drivetree"
	"materihub/internal/service/drivetree"
)

const (
	itemFields googleapi.Field = "id, name, mimeType, size, modifiedTime, webViewLink"
	listFields googleapi.Field = "nextPageToken, files(id, name, mimeType, size, modifiedTime, webViewLink)"

	googleAppsPrefix = "application/vnd.google-apps."
)

// requestsTotal counts Drive API calls by operation and outcome
var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "materihub_drive_requests_total",
	Help: "Google Drive API requests by operation and outcome",
}, []string{"op", "outcome"})

// rateLimitReasons are 403 reasons that mean "slow down", not "no access"
var rateLimitReasons = map[string]bool{
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
	"dailyLimitExceeded":    true,
	"quotaExceeded":         true,
}

// Client implements the TreeClient interface over the Drive v3 API
type Client struct {
	files   *drive.FilesService
	kinds   *drivetree.KindRegistry
	limiter *rate.Limiter // nil = unlimited
	logger  *slog.Logger
}

var _ svc.TreeClient = (*Client)(nil)

// NewClient authenticates as the configured service account with read-only Drive scope.
// The private key is parsed here so bad credentials fail at startup, not on the first request.
func NewClient(ctx context.Context, cfg config.DriveConfig, kinds *drivetree.KindRegistry, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	if err := checkPrivateKey(cfg.PrivateKey); err != nil {
		return nil, fmt.Errorf("%w: GOOGLE_PRIVATE_KEY: %v", domain.ErrConfiguration, err)
	}

	jwtConfig := &jwt.Config{
		Email:      cfg.ClientEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{drive.DriveReadonlyScope},
		TokenURL:   google.JWTTokenURL,
	}

	logger.Info("google drive client configured",
		"project_id", cfg.ProjectID,
		"client_email", cfg.ClientEmail,
		"requests_per_second", cfg.RequestsPerSecond,
	)

	return NewClientWithOptions(ctx, kinds, logger, cfg.RequestsPerSecond,
		option.WithTokenSource(jwtConfig.TokenSource(ctx)),
		option.WithQuotaProject(cfg.ProjectID),
	)
}

// NewClientWithOptions builds a client from raw API options (endpoint, auth, HTTP client).
// requestsPerSecond <= 0 disables client-side rate limiting.
func NewClientWithOptions(ctx context.Context, kinds *drivetree.KindRegistry, logger *slog.Logger, requestsPerSecond float64, opts ...option.ClientOption) (*Client, error) {
	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create drive service: %v", domain.ErrConfiguration, err)
	}

	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		burst := int(requestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}

	return &Client{
		files:   service.Files,
		kinds:   kinds,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// GetItem returns metadata for one file or folder
func (c *Client) GetItem(ctx context.Context, id string) (*models.Item, error) {
	if !drivetree.IsValidFolderID(id) {
		return nil, domain.NewRemoteError(domain.ErrRemoteNotFound, id, "malformed file id")
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	file, err := c.files.Get(id).
		Fields(itemFields).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		remoteErr := classifyError(err, id)
		c.record("get", remoteErr)
		c.logger.Debug("drive files.get failed", "id", id, "error", remoteErr)
		return nil, remoteErr
	}
	c.record("get", nil)
	c.logger.Debug("drive files.get", "id", id, "duration_ms", time.Since(start).Milliseconds())

	item := c.toItem(file)
	return &item, nil
}

// ListChildren returns every non-trashed direct child of a folder, following
// nextPageToken until the listing is complete
func (c *Client) ListChildren(ctx context.Context, id string) ([]models.Item, error) {
	if !drivetree.IsValidFolderID(id) {
		return nil, domain.NewRemoteError(domain.ErrRemoteNotFound, id, "malformed folder id")
	}

	query := fmt.Sprintf("'%s' in parents and trashed = false", id)
	items := make([]models.Item, 0)
	pageToken := ""
	pages := 0

	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}

		call := c.files.List().
			Q(query).
			Fields(listFields).
			PageSize(config.DrivePageSize).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		list, err := call.Do()
		if err != nil {
			remoteErr := classifyError(err, id)
			c.record("list", remoteErr)
			c.logger.Debug("drive files.list failed", "folder_id", id, "page", pages, "error", remoteErr)
			return nil, remoteErr
		}
		c.record("list", nil)
		pages++

		for _, file := range list.Files {
			items = append(items, c.toItem(file))
		}

		if list.NextPageToken == "" {
			break
		}
		pageToken = list.NextPageToken
	}

	c.logger.Debug("drive files.list", "folder_id", id, "items", len(items), "pages", pages)
	return items, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *Client) record(op string, err error) {
	requestsTotal.WithLabelValues(op, outcome(err)).Inc()
}

// toItem converts a Drive file into an Item. Google-native files and folders
// have no byte size.
func (c *Client) toItem(file *drive.File) models.Item {
	item := models.Item{
		ID:           file.Id,
		Name:         file.Name,
		MimeType:     file.MimeType,
		Kind:         c.kinds.Classify(file.MimeType),
		ExternalLink: file.WebViewLink,
	}
	if !item.IsFolder() && !strings.HasPrefix(file.MimeType, googleAppsPrefix) {
		size := file.Size
		item.SizeBytes = &size
	}
	if file.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, file.ModifiedTime); err == nil {
			item.ModifiedAt = &t
		}
	}
	return item
}

// classifyError maps a Drive API failure onto the remote error kinds.
// A 401 means our own credentials were rejected, so it is a provider failure.
func classifyError(err error, id string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return domain.NewRemoteError(domain.ErrRemoteProvider, id, err.Error())
	}

	detail := apiErr.Message
	if detail == "" && len(apiErr.Errors) > 0 {
		detail = apiErr.Errors[0].Message
	}

	switch apiErr.Code {
	case http.StatusNotFound:
		return domain.NewRemoteError(domain.ErrRemoteNotFound, id, detail)
	case http.StatusForbidden:
		for _, item := range apiErr.Errors {
			if rateLimitReasons[item.Reason] {
				return domain.NewRemoteError(domain.ErrRemoteProvider, id, detail)
			}
		}
		return domain.NewRemoteError(domain.ErrRemoteAccessDenied, id, detail)
	default:
		return domain.NewRemoteError(domain.ErrRemoteProvider, id, detail)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrRemoteNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrRemoteAccessDenied):
		return "access_denied"
	case errors.Is(err, domain.ErrRemoteProvider):
		return "provider_error"
	default:
		return "canceled"
	}
}

// checkPrivateKey verifies the service account key is a PEM-encoded RSA key
func checkPrivateKey(key string) error {
	block, _ := pem.Decode([]byte(key))
	if block == nil {
		return errors.New("no PEM block found")
	}
	if _, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		return nil
	}
	if _, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return nil
	}
	return errors.New("not a PKCS#8 or PKCS#1 private key")
}
