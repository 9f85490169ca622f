// Package drive implements the driven.Backend port on Google Drive.
// Containers are Drive folders; object and container identities are Drive
// file ids. Shared Drives are supported throughout.
package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/qontosync/internal/core/domain"
	"github.com/custodia-labs/qontosync/internal/core/ports/driven"
)

// MimeTypeFolder is the Drive MIME type marking a folder.
const MimeTypeFolder = "application/vnd.google-apps.folder"

// Ensure Backend implements the port.
var _ driven.Backend = (*Backend)(nil)

// Backend stores synchronised attachments inside one Drive folder tree.
type Backend struct {
	svc      *drive.Service
	folderID string
}

// New authenticates with a service-account key file and validates that
// the destination folder is reachable. Both failure modes are fatal
// configuration errors; nothing here is retried.
func New(ctx context.Context, credentialsPath, folderID string) (*Backend, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read service account key: %w", domain.ErrConfig, err)
	}

	conf, err := google.JWTConfigFromJSON(data, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("%w: parse service account key: %w", domain.ErrConfig, err)
	}

	svc, err := drive.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("%w: create drive service: %w", domain.ErrConfig, err)
	}

	b := &Backend{svc: svc, folderID: folderID}
	if _, err := svc.Files.Get(folderID).SupportsAllDrives(true).Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("%w: destination folder %q is not accessible: %w",
			domain.ErrConfig, folderID, err)
	}
	return b, nil
}

// Exists returns the file id of name inside parent.
func (b *Backend) Exists(ctx context.Context, name, parent string) (string, error) {
	return b.findByName(ctx, name, parent, "")
}

// Write upserts a file: an existing object of the same name is updated in
// place, so repeated syncs never pile up duplicate names in one folder.
func (b *Backend) Write(ctx context.Context, name, parent string, data []byte) error {
	id, err := b.findByName(ctx, name, parent, "")
	if err != nil && !domain.IsNotFound(err) {
		return err
	}

	media := bytes.NewReader(data)
	contentType := mimetype.Detect(data).String()

	if id != "" {
		_, err = b.svc.Files.Update(id, &drive.File{}).
			Media(media, googleapi.ContentType(contentType)).
			SupportsAllDrives(true).
			Context(ctx).Do()
		if err != nil {
			return classify(fmt.Errorf("update %q: %w", name, err))
		}
		return nil
	}

	_, err = b.svc.Files.Create(&drive.File{Name: name, Parents: []string{parent}}).
		Media(media, googleapi.ContentType(contentType)).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return classify(fmt.Errorf("create %q: %w", name, err))
	}
	return nil
}

// Rename changes a file's name in place.
func (b *Backend) Rename(ctx context.Context, oldName, newName, parent string) error {
	id, err := b.findByName(ctx, oldName, parent, "")
	if err != nil {
		return err
	}

	_, err = b.svc.Files.Update(id, &drive.File{Name: newName}).
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return classify(fmt.Errorf("rename %q: %w", oldName, err))
	}
	return nil
}

// Read downloads a file's bytes.
func (b *Backend) Read(ctx context.Context, name, parent string) ([]byte, error) {
	id, err := b.findByName(ctx, name, parent, "")
	if err != nil {
		return nil, err
	}

	resp, err := b.svc.Files.Get(id).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, classify(fmt.Errorf("download %q: %w", name, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %w", domain.ErrTransient, name, err)
	}
	return data, nil
}

// EnsureContainer finds or creates a subfolder of parent. Idempotent.
func (b *Backend) EnsureContainer(ctx context.Context, name, parent string) (string, error) {
	id, err := b.findByName(ctx, name, parent, MimeTypeFolder)
	if err == nil {
		return id, nil
	}
	if !domain.IsNotFound(err) {
		return "", err
	}

	folder, err := b.svc.Files.Create(&drive.File{
		Name:     name,
		Parents:  []string{parent},
		MimeType: MimeTypeFolder,
	}).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return "", classify(fmt.Errorf("create folder %q: %w", name, err))
	}
	return folder.Id, nil
}

// Root returns the configured destination folder id.
func (b *Backend) Root() string { return b.folderID }

// Location describes the destination for run output.
func (b *Backend) Location() string { return "Google Drive folder " + b.folderID }

// ContainerLink returns the browser URL of a folder.
func (b *Backend) ContainerLink(id string) string {
	return "https://drive.google.com/drive/folders/" + id
}

// findByName resolves a non-trashed child of parent by exact name,
// optionally restricted to one MIME type.
func (b *Backend) findByName(ctx context.Context, name, parent, mimeType string) (string, error) {
	query := fmt.Sprintf("name='%s' and '%s' in parents and trashed=false",
		escapeQuery(name), parent)
	if mimeType != "" {
		query += fmt.Sprintf(" and mimeType='%s'", mimeType)
	}

	list, err := b.svc.Files.List().
		Q(query).
		Fields("files(id, name)").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return "", classify(fmt.Errorf("search %q: %w", name, err))
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	return list.Files[0].Id, nil
}

// escapeQuery escapes single quotes for a Drive search query.
func escapeQuery(name string) string {
	return strings.ReplaceAll(name, `'`, `\'`)
}

// classify maps googleapi failures onto the domain error taxonomy.
func classify(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		// Transport-level failure.
		return fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}
	switch {
	case gerr.Code == http.StatusNotFound:
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
		return fmt.Errorf("%w: %w", domain.ErrConfig, err)
	case gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500:
		return fmt.Errorf("%w: %w", domain.ErrTransient, err)
	default:
		return err
	}
}
