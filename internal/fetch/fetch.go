// Package fetch mirrors annual report PDFs from a remote FTP drop into the
// local reports directory.
package fetch

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/dxpulse/plct-cli/internal/config"
)

// ftpConn is the subset of the FTP client the mirror needs. Retrieve adapts
// the library's response type to a plain ReadCloser.
type ftpConn interface {
	List(path string) ([]*ftp.Entry, error)
	Retrieve(path string) (io.ReadCloser, error)
	Quit() error
}

type serverConn struct {
	conn *ftp.ServerConn
}

func (s *serverConn) List(path string) ([]*ftp.Entry, error) { return s.conn.List(path) }
func (s *serverConn) Quit() error                            { return s.conn.Quit() }

func (s *serverConn) Retrieve(path string) (io.ReadCloser, error) {
	return s.conn.Retr(path)
}

// Mirror copies PDF files from a remote FTP directory into a local one.
// Files already present locally are left alone, so repeated mirrors only
// transfer new reports.
type Mirror struct {
	cfg  config.FTPConfig
	dial func(ctx context.Context) (ftpConn, error)
}

// Result summarizes one mirror pass.
type Result struct {
	Downloaded []string `json:"downloaded"`
	Skipped    int      `json:"skipped"`
}

// New creates a Mirror for the configured FTP drop.
func New(cfg config.FTPConfig) *Mirror {
	return &Mirror{
		cfg: cfg,
		dial: func(ctx context.Context) (ftpConn, error) {
			host := cfg.Host
			if _, _, err := net.SplitHostPort(host); err != nil {
				host = net.JoinHostPort(host, "21")
			}

			conn, err := ftp.Dial(host, ftp.DialWithTimeout(30*time.Second), ftp.DialWithContext(ctx))
			if err != nil {
				return nil, eris.Wrap(err, "fetch: ftp dial")
			}

			user, password := cfg.User, cfg.Password
			if user == "" {
				user, password = "anonymous", "anonymous@"
			}
			if err := conn.Login(user, password); err != nil {
				conn.Quit()
				return nil, eris.Wrap(err, "fetch: ftp login")
			}

			return &serverConn{conn: conn}, nil
		},
	}
}

// MirrorReports downloads every remote PDF not already present in destDir.
func (m *Mirror) MirrorReports(ctx context.Context, destDir string) (*Result, error) {
	if m.cfg.Host == "" {
		return nil, eris.New("fetch: ftp host not configured")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "fetch: create dest dir %s", destDir)
	}

	conn, err := m.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Quit()

	entries, err := conn.List(m.cfg.Dir)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: list %s", m.cfg.Dir)
	}

	log := zap.L().With(zap.String("host", m.cfg.Host), zap.String("dir", m.cfg.Dir))

	result := &Result{}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return result, eris.Wrap(ctx.Err(), "fetch: mirror interrupted")
		}
		if entry.Type != ftp.EntryTypeFile || !strings.EqualFold(filepath.Ext(entry.Name), ".pdf") {
			continue
		}

		localPath := filepath.Join(destDir, entry.Name)
		if _, err := os.Stat(localPath); err == nil {
			result.Skipped++
			continue
		}

		n, err := m.download(conn, entry.Name, localPath)
		if err != nil {
			return result, err
		}

		log.Info("fetch: downloaded report",
			zap.String("file", entry.Name),
			zap.Int64("bytes", n),
		)
		result.Downloaded = append(result.Downloaded, entry.Name)
	}

	log.Info("fetch: mirror complete",
		zap.Int("downloaded", len(result.Downloaded)),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}

func (m *Mirror) download(conn ftpConn, name, localPath string) (int64, error) {
	remotePath := name
	if m.cfg.Dir != "" {
		remotePath = strings.TrimSuffix(m.cfg.Dir, "/") + "/" + name
	}

	rc, err := conn.Retrieve(remotePath)
	if err != nil {
		return 0, eris.Wrapf(err, "fetch: retrieve %s", remotePath)
	}
	defer rc.Close()

	// Download to a temp name so a partial transfer never looks like a
	// complete report to the pipeline.
	tmpPath := localPath + ".part"
	file, err := os.Create(tmpPath)
	if err != nil {
		return 0, eris.Wrapf(err, "fetch: create %s", tmpPath)
	}

	n, err := io.Copy(file, rc)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return n, eris.Wrapf(err, "fetch: write %s", tmpPath)
	}

	if err := os.Rename(tmpPath, localPath); err != nil {
		os.Remove(tmpPath)
		return n, eris.Wrapf(err, "fetch: rename %s", tmpPath)
	}

	return n, nil
}
