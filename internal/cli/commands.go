package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"os"
	"path/filepath"
	"time"

	"codeme-client/internal/api"
	"codeme-client/internal/api/routes"
	apperrors "codeme-client/internal/errors"
	"codeme-client/internal/logger"
	"codeme-client/internal/service"

	"github.com/google/uuid"
)

const (
	// LoginTimeout bounds how long login waits for the browser callback
	LoginTimeout = 5 * time.Minute
	// LandingGrace keeps the server up after login so the browser can load
	// the page the callback redirects to
	LandingGrace = 2 * time.Second
)

func (a *App) newServer() *api.Server {
	a.server = api.NewServer(net.JoinHostPort("localhost", a.cfg.Port), routes.SetupRoutes(a.cfg, a.state))
	return a.server
}

// Serve runs the companion server until ctx is done
func (a *App) Serve(ctx context.Context) error {
	srv := a.newServer()
	if err := srv.Start(); err != nil {
		return err
	}
	fmt.Fprintf(a.errOut, "Companion server running at %s\n", srv.BaseURL())
	return srv.Wait(ctx)
}

// Login starts the companion server, opens the login page and waits for the
// callback to deliver a token
func (a *App) Login(ctx context.Context) error {
	if a.cfg.AuthLoginURL == "" {
		return apperrors.ErrLoginURLNotSet
	}

	srv := a.newServer()
	if err := srv.Start(); err != nil {
		return err
	}
	defer func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.New().WithError(err).Warn("Companion server did not stop cleanly")
		}
	}()

	// Read before opening the browser so a fast callback is not missed
	gen := a.state.Generation()

	fmt.Fprintf(a.errOut, "Opening %s\n", a.cfg.AuthLoginURL)
	if err := a.openBrowser(a.cfg.AuthLoginURL); err != nil {
		logger.New().WithError(err).Warn("Failed to open browser automatically")
		fmt.Fprintf(a.errOut, "Open this URL in your browser to continue:\n  %s\n", a.cfg.AuthLoginURL)
	}

	waitCtx, cancel := context.WithTimeout(ctx, LoginTimeout)
	defer cancel()

	if _, err := a.state.WaitForToken(waitCtx, gen); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperrors.ErrLoginTimeout
		}
		return apperrors.NewAuthenticationError("login cancelled before the callback arrived")
	}

	fmt.Fprintln(a.errOut, "Logged in")

	select {
	case <-time.After(a.landingGrace):
	case <-ctx.Done():
	}
	return nil
}

// Logout forgets the stored token
func (a *App) Logout() error {
	if err := a.state.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.errOut, "Logged out")
	return nil
}

// Share creates a share link for groupID and prints it
func (a *App) Share(ctx context.Context, groupID, title string) error {
	if !a.state.HasToken() {
		return apperrors.ErrNoToken
	}
	link, err := a.links.CreateForGroup(ctx, groupID, title)
	if err != nil {
		return err
	}
	return a.printJSON(link)
}

// ListDocuments prints the user's documents
func (a *App) ListDocuments(ctx context.Context) error {
	docs, err := a.documents.List(ctx)
	if err != nil {
		return err
	}
	return a.printJSON(docs)
}

// UploadDocument uploads the file at path and prints the created document
func (a *App) UploadDocument(ctx context.Context, path, title string) error {
	if path == "" {
		return apperrors.ErrEmptyPath
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return apperrors.NewValidationError("path", path+" is a directory")
	}

	doc, err := a.documents.Upload(ctx, &service.UploadDocumentRequest{
		FileName:    filepath.Base(path),
		Title:       title,
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Size:        info.Size(),
		Reader:      f,
	})
	if err != nil {
		return err
	}
	return a.printJSON(doc)
}

// DownloadDocument writes the document content to dest. A partially written
// file is removed on failure.
func (a *App) DownloadDocument(ctx context.Context, id, dest string) error {
	docID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.NewValidationError("id", "invalid document ID: "+err.Error())
	}

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	n, err := a.documents.Download(ctx, docID, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to write %s: %w", dest, closeErr)
	}
	if err != nil {
		_ = os.Remove(dest)
		return err
	}

	fmt.Fprintf(a.errOut, "Wrote %d bytes to %s\n", n, dest)
	return nil
}

// DeleteDocument deletes a document
func (a *App) DeleteDocument(ctx context.Context, id string) error {
	docID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.NewValidationError("id", "invalid document ID: "+err.Error())
	}
	if err := a.documents.Delete(ctx, docID); err != nil {
		return err
	}
	fmt.Fprintf(a.errOut, "Deleted %s\n", docID)
	return nil
}
