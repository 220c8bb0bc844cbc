package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/khatapp/khata/internal/apperrors"
	"github.com/khatapp/khata/internal/platform/config"
	"github.com/khatapp/khata/internal/store"
)

const (
	driveBackupPrefix   = "khata_backup"
	driveBackupMimeType = "application/json"
)

// DriveBackupFile is one remote backup as listed in the settings screen.
type DriveBackupFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SizeBytes    int64  `json:"sizeBytes"`
	CreatedTime  string `json:"createdTime"`
	ModifiedTime string `json:"modifiedTime"`
}

// DriveBackupService pushes exported backups to the user's Google Drive and
// restores from them. The OAuth token lives in the key-value backend next to
// the document, so a full data reset also disconnects the account. The
// drive.file scope limits access to files this app created.
type DriveBackupService struct {
	backup  *BackupService
	backend store.Store
	logger  *slog.Logger
	oauth   *oauth2.Config
	opts    []option.ClientOption
}

// NewDriveBackupService builds the Drive integration from the configured
// OAuth credentials. Extra client options are for tests to point the Drive
// client at a stub server.
func NewDriveBackupService(backup *BackupService, backend store.Store, cfg *config.Config,
	logger *slog.Logger, opts ...option.ClientOption) *DriveBackupService {
	return &DriveBackupService{
		backup:  backup,
		backend: backend,
		logger:  logger,
		opts:    opts,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{drive.DriveFileScope},
			Endpoint:     google.Endpoint, // from "golang.org/x/oauth2/google"
		},
	}
}

// AuthURL returns the consent URL to send the user to. Offline access is
// requested so the stored token can be refreshed without re-prompting.
func (s *DriveBackupService) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Connect exchanges the authorization code and persists the resulting token.
func (s *DriveBackupService) Connect(ctx context.Context, code string) error {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange oauth code: %w", err)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode oauth token: %w", err)
	}
	if err := s.backend.Set(ctx, store.KeyDriveToken, data); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}
	s.logger.Info("Google Drive connected")
	return nil
}

// Disconnect drops the stored token. Remote backups are left in place.
func (s *DriveBackupService) Disconnect(ctx context.Context) error {
	if err := s.backend.Delete(ctx, store.KeyDriveToken); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}
	s.logger.Info("Google Drive disconnected")
	return nil
}

// Connected reports whether a Drive token is stored.
func (s *DriveBackupService) Connected(ctx context.Context) bool {
	_, err := s.token(ctx)
	return err == nil
}

// Upload exports the current document and creates it as a new file in Drive.
func (s *DriveBackupService) Upload(ctx context.Context) (*DriveBackupFile, error) {
	svc, err := s.driveService(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := s.backup.Export(ctx)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%s_%s.json", driveBackupPrefix, time.Now().UTC().Format("2006-01-02_15-04-05"))
	meta := &drive.File{
		Name:        name,
		MimeType:    driveBackupMimeType,
		Description: "khata data backup",
	}
	created, err := svc.Files.Create(meta).
		Media(strings.NewReader(payload)).
		Fields("id, name, size, createdTime, modifiedTime").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("upload backup to drive: %w", err)
	}

	s.logger.Info("Backup uploaded to Google Drive",
		slog.String("fileId", created.Id), slog.String("name", created.Name))
	return driveFile(created), nil
}

// List returns this app's backups in Drive, newest first.
func (s *DriveBackupService) List(ctx context.Context) ([]DriveBackupFile, error) {
	svc, err := s.driveService(ctx)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("mimeType='%s' and name contains '%s' and trashed=false",
		driveBackupMimeType, driveBackupPrefix)
	list, err := svc.Files.List().
		Q(q).
		Spaces("drive").
		Fields("files(id, name, size, createdTime, modifiedTime)").
		OrderBy("modifiedTime desc").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list drive backups: %w", err)
	}

	files := make([]DriveBackupFile, 0, len(list.Files))
	for _, f := range list.Files {
		files = append(files, *driveFile(f))
	}
	return files, nil
}

// Restore downloads the named backup and installs it as the live document.
// It goes through BackupService.Restore, so the same collection validation
// applies to cloud backups as to pasted ones.
func (s *DriveBackupService) Restore(ctx context.Context, fileID string) error {
	svc, err := s.driveService(ctx)
	if err != nil {
		return err
	}

	resp, err := svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return fmt.Errorf("download drive backup %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read drive backup %s: %w", fileID, err)
	}
	return s.backup.Restore(ctx, string(data))
}

// Delete removes one backup file from Drive.
func (s *DriveBackupService) Delete(ctx context.Context, fileID string) error {
	svc, err := s.driveService(ctx)
	if err != nil {
		return err
	}
	if err := svc.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete drive backup %s: %w", fileID, err)
	}
	return nil
}

func (s *DriveBackupService) token(ctx context.Context) (*oauth2.Token, error) {
	data, err := s.backend.Get(ctx, store.KeyDriveToken)
	if err != nil {
		return nil, apperrors.ErrDriveNotConnected
	}
	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("%w: stored token is malformed", apperrors.ErrDriveNotConnected)
	}
	return token, nil
}

func (s *DriveBackupService) driveService(ctx context.Context) (*drive.Service, error) {
	token, err := s.token(ctx)
	if err != nil {
		return nil, err
	}
	opts := append([]option.ClientOption{
		option.WithHTTPClient(s.oauth.Client(ctx, token)),
	}, s.opts...)
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("build drive client: %w", err)
	}
	return svc, nil
}

func driveFile(f *drive.File) *DriveBackupFile {
	return &DriveBackupFile{
		ID:           f.Id,
		Name:         f.Name,
		SizeBytes:    f.Size,
		CreatedTime:  f.CreatedTime,
		ModifiedTime: f.ModifiedTime,
	}
}
