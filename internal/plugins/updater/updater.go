// Package updater checks the configured release endpoints for a newer build.
package updater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/naimozcan/nyoworks-framework/internal/config"
	"github.com/naimozcan/nyoworks-framework/internal/desktop"
	"github.com/naimozcan/nyoworks-framework/internal/logging"
)

// AvailableEvent is emitted when the startup check finds an update.
const AvailableEvent = "updater://available"

// ErrNoEndpoints is returned when an active updater has no endpoints configured.
var ErrNoEndpoints = errors.New("no update endpoints configured")

// UpdateInfo describes the result of a check.
type UpdateInfo struct {
	Available      bool   `json:"available"`
	CurrentVersion string `json:"currentVersion"`
	LatestVersion  string `json:"latestVersion,omitempty"`
	Notes          string `json:"notes,omitempty"`
	Date           string `json:"date,omitempty"`
	URL            string `json:"url,omitempty"`
	Signature      string `json:"signature,omitempty"`
}

// Result pairs an UpdateInfo with the error of an asynchronous check.
type Result struct {
	Info UpdateInfo
	Err  error
}

// manifest is the release document served by an endpoint. Either Platforms
// or the flat URL/Signature pair is set.
type manifest struct {
	Version   string              `json:"version"`
	Notes     string              `json:"notes"`
	PubDate   string              `json:"pub_date"`
	URL       string              `json:"url"`
	Signature string              `json:"signature"`
	Platforms map[string]platform `json:"platforms"`
}

type platform struct {
	URL       string `json:"url"`
	Signature string `json:"signature"`
}

// Updater is the capability bound to the front-end.
type Updater struct {
	current   string
	endpoints []string
	active    bool
	target    string
	arch      string
	client    *http.Client
	timeout   time.Duration
	log       *logging.Logger
}

func newUpdater(cfg config.UpdaterConfig, current string, log *logging.Logger) *Updater {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Updater{
		current:   current,
		endpoints: cfg.Endpoints,
		active:    cfg.Active,
		target:    runtime.GOOS,
		arch:      archName(runtime.GOARCH),
		client:    &http.Client{},
		timeout:   timeout,
		log:       log,
	}
}

// archName maps GOARCH to the names used in release manifests.
func archName(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "i686"
	case "arm":
		return "armv7"
	default:
		return goarch
	}
}

// PlatformKey returns the manifest key for this build, e.g. "linux-x86_64".
func (u *Updater) PlatformKey() string {
	return u.target + "-" + u.arch
}

// Check queries the endpoints for a newer release. It is the front-end binding
// and bounds the request with the configured timeout.
func (u *Updater) Check() (UpdateInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), u.timeout)
	defer cancel()
	return u.checkContext(ctx)
}

// checkContext queries the endpoints in order; the first that answers wins.
// When the updater is inactive no request is made and no update is reported.
func (u *Updater) checkContext(ctx context.Context) (UpdateInfo, error) {
	info := UpdateInfo{CurrentVersion: u.current}
	if !u.active {
		return info, nil
	}
	if len(u.endpoints) == 0 {
		return info, ErrNoEndpoints
	}

	var errs []error
	for _, endpoint := range u.endpoints {
		m, err := u.fetch(ctx, u.expand(endpoint))
		if err != nil {
			u.log.With(zap.String("endpoint", endpoint), zap.Error(err)).Debug("update endpoint failed")
			errs = append(errs, err)
			continue
		}
		if m == nil {
			// 204: server says we're current
			return info, nil
		}
		return u.resolve(m)
	}
	return info, fmt.Errorf("all update endpoints failed: %w", errors.Join(errs...))
}

// checkAsync runs checkContext on a goroutine and delivers the result.
func (u *Updater) checkAsync(ctx context.Context) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		info, err := u.checkContext(ctx)
		ch <- Result{Info: info, Err: err}
	}()
	return ch
}

func (u *Updater) expand(endpoint string) string {
	return strings.NewReplacer(
		"{{current_version}}", u.current,
		"{{target}}", u.target,
		"{{arch}}", u.arch,
	).Replace(endpoint)
}

// fetch returns nil, nil when the server answers 204 No Content.
func (u *Updater) fetch(ctx context.Context, endpoint string) (*manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%s: unexpected status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("%s: invalid manifest: %w", endpoint, err)
	}
	if m.Version == "" {
		return nil, fmt.Errorf("%s: manifest has no version", endpoint)
	}
	return &m, nil
}

func (u *Updater) resolve(m *manifest) (UpdateInfo, error) {
	info := UpdateInfo{
		CurrentVersion: u.current,
		LatestVersion:  m.Version,
		Notes:          m.Notes,
		Date:           m.PubDate,
		URL:            m.URL,
		Signature:      m.Signature,
	}
	if CompareVersions(u.current, m.Version) >= 0 {
		return info, nil
	}

	if m.Platforms != nil {
		p, ok := m.Platforms[u.PlatformKey()]
		if !ok {
			return info, fmt.Errorf("release %s has no build for %s", m.Version, u.PlatformKey())
		}
		info.URL = p.URL
		info.Signature = p.Signature
	}
	if info.URL == "" {
		return info, fmt.Errorf("release %s has no download url", m.Version)
	}
	info.Available = true
	return info, nil
}

// Plugin registers the updater capability with the desktop builder.
type Plugin struct {
	cfg            config.UpdaterConfig
	checkOnStartup bool
	updater        *Updater

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates the updater plugin. checkOnStartup comes from the user settings.
func New(cfg config.UpdaterConfig, checkOnStartup bool) *Plugin {
	return &Plugin{cfg: cfg, checkOnStartup: checkOnStartup}
}

func (p *Plugin) Name() string { return "updater" }

func (p *Plugin) Init(app *desktop.App) error {
	log := app.Logger().Named("updater")
	p.updater = newUpdater(p.cfg, desktop.Version, log)
	if !p.cfg.Active || !p.checkOnStartup {
		return nil
	}

	app.OnStartup(func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, p.updater.timeout)
		p.mu.Lock()
		p.cancel = cancel
		p.mu.Unlock()
		go func() {
			defer cancel()
			res := <-p.updater.checkAsync(ctx)
			if res.Err != nil {
				log.With(zap.Error(res.Err)).Warning("update check failed")
				return
			}
			if res.Info.Available {
				log.With(zap.String("latest", res.Info.LatestVersion)).Info("update available")
				app.Emit(AvailableEvent, res.Info)
			}
		}()
	})
	return nil
}

func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
	return nil
}

func (p *Plugin) Bind() interface{} {
	return p.updater
}
