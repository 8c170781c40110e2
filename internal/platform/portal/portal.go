// Package portal defines the PortalSession collaborator contract and
// its concrete browser-automation implementation against a co-op job
// board, driven by a headless Chromium instance.
package portal

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/mwozniak/jobrank/internal/config"
	"github.com/mwozniak/jobrank/internal/errs"
	"github.com/mwozniak/jobrank/internal/platform/logger"
)

// sessionCookieName is the portal's SSO session cookie, cached across
// runs so login() can skip the form-fill sequence when it is still valid.
const sessionCookieName = "portal_session"

// sessionTTL bounds how long a cached session cookie is trusted before
// login() re-authenticates through the form regardless of cookie state.
const sessionTTL = 12 * time.Hour

// JobRow is the lightweight listing row enumerated before a detail
// fetch.
type JobRow struct {
	JobID string
	URL   string
}

// ApplyOutcome categorizes the result of a single apply attempt against
// the states a co-op portal's application form can report.
type ApplyOutcome string

const (
	ApplyOutcomeSubmitted        ApplyOutcome = "submitted"
	ApplyOutcomeSkippedPrescreen ApplyOutcome = "skipped_prescreen"
	ApplyOutcomeSkippedExtraDocs ApplyOutcome = "skipped_extra_docs"
	ApplyOutcomeSkippedExternal  ApplyOutcome = "skipped_external"
	ApplyOutcomeFailed           ApplyOutcome = "failed"
)

// Session is the narrow contract the pipeline depends on for all
// portal interaction. A single Session instance is scoped to one
// pipeline run and must be closed exactly once.
type Session interface {
	Login(ctx context.Context) error
	IterateJobs(ctx context.Context) ([]JobRow, error)
	FetchDetail(ctx context.Context, row JobRow) (map[string]string, error)
	SaveToFolder(ctx context.Context, jobID, folder string) error
	Apply(ctx context.Context, jobID string) (ApplyOutcome, error)
	UploadDocument(ctx context.Context, jobID, documentPath string) error
	Close() error
}

// BrowserSession implements Session using go-rod against a real
// Chromium instance.
type BrowserSession struct {
	cfg     config.PortalConfig
	log     *logger.Logger
	browser *rod.Browser
	cache   *SessionCache
	closed  bool
}

// New launches a browser and returns a Session bound to cfg. The
// browser is not logged in yet; call Login before any other method.
func New(cfg config.PortalConfig, log *logger.Logger) (*BrowserSession, error) {
	url, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: launch browser: %v", errs.ErrFetch, err)
	}
	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: connect to browser: %v", errs.ErrFetch, err)
	}
	return &BrowserSession{cfg: cfg, log: log, browser: browser, cache: NewSessionCache(cfg.SessionCachePath)}, nil
}

// Login authenticates against the portal's base URL, reusing a cached
// session cookie when one is still valid so repeat invocations don't
// pay the form-fill sequence every run.
func (s *BrowserSession) Login(ctx context.Context) error {
	page, err := s.browser.Page(rod.PageInfo{})
	if err != nil {
		return fmt.Errorf("%w: open login page: %v", errs.ErrAuth, err)
	}
	page = page.Context(ctx)

	if s.tryResumeSession(page) {
		return nil
	}

	if err := page.Navigate(s.cfg.BaseURL); err != nil {
		return fmt.Errorf("%w: navigate to %s: %v", errs.ErrAuth, s.cfg.BaseURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("%w: wait for login page load: %v", errs.ErrAuth, err)
	}

	usernameField, err := page.Element(`input[name="username"]`)
	if err != nil {
		return fmt.Errorf("%w: locate username field: %v", errs.ErrAuth, err)
	}
	if err := usernameField.Input(s.cfg.Username); err != nil {
		return fmt.Errorf("%w: enter username: %v", errs.ErrAuth, err)
	}

	passwordField, err := page.Element(`input[name="password"]`)
	if err != nil {
		return fmt.Errorf("%w: locate password field: %v", errs.ErrAuth, err)
	}
	if err := passwordField.Input(s.cfg.Password); err != nil {
		return fmt.Errorf("%w: enter password: %v", errs.ErrAuth, err)
	}

	submit, err := page.Element(`button[type="submit"]`)
	if err != nil {
		return fmt.Errorf("%w: locate submit button: %v", errs.ErrAuth, err)
	}
	if err := submit.Click(rod.Left, 1); err != nil {
		return fmt.Errorf("%w: submit login form: %v", errs.ErrAuth, err)
	}
	_ = page.WaitLoad()

	s.persistSession(page)
	return nil
}

// tryResumeSession replays a cached session cookie and reports whether
// the portal accepted it (no login form on the resulting page). Any
// failure along the way is treated as "no cached session" and falls
// through to the normal form-fill login.
func (s *BrowserSession) tryResumeSession(page *rod.Page) bool {
	tok, err := s.cache.Load()
	if err != nil || tok == nil {
		return false
	}

	if err := page.SetCookies([]*proto.NetworkCookieParam{{
		Name:  sessionCookieName,
		Value: tok.AccessToken,
		URL:   s.cfg.BaseURL,
	}}); err != nil {
		return false
	}
	if err := page.Navigate(s.cfg.BaseURL); err != nil {
		return false
	}
	if err := page.WaitLoad(); err != nil {
		return false
	}

	hasLoginForm, _, err := page.Has(`input[name="username"]`)
	if err != nil || hasLoginForm {
		s.log.Sugar().Infow("cached portal session rejected, logging in again")
		return false
	}
	return true
}

// persistSession reads the portal's session cookie back from the page
// after a successful form login and caches it for the next run. Failure
// to do so is non-fatal: login already succeeded for this run.
func (s *BrowserSession) persistSession(page *rod.Page) {
	cookies, err := page.Cookies([]string{s.cfg.BaseURL})
	if err != nil {
		return
	}
	for _, c := range cookies {
		if c.Name != sessionCookieName {
			continue
		}
		if err := s.cache.Save(c.Value, sessionTTL); err != nil {
			s.log.Sugar().Warnw("failed to persist portal session", "error", err)
		}
		return
	}
}

// IterateJobs enumerates every job row currently listed on the portal.
func (s *BrowserSession) IterateJobs(ctx context.Context) ([]JobRow, error) {
	page, err := s.browser.Page(rod.PageInfo{})
	if err != nil {
		return nil, fmt.Errorf("%w: open listings page: %v", errs.ErrFetch, err)
	}
	if err := page.Context(ctx).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: wait for listings page: %v", errs.ErrFetch, err)
	}

	rows, err := page.Elements(`tr[data-job-id]`)
	if err != nil {
		return nil, fmt.Errorf("%w: locate job rows: %v", errs.ErrFetch, err)
	}

	jobs := make([]JobRow, 0, len(rows))
	for _, el := range rows {
		jobID, err := el.Attribute("data-job-id")
		if err != nil || jobID == nil {
			continue
		}
		link, err := el.Element("a")
		href := ""
		if err == nil {
			if attr, aerr := link.Attribute("href"); aerr == nil && attr != nil {
				href = *attr
			}
		}
		jobs = append(jobs, JobRow{JobID: *jobID, URL: href})
	}
	return jobs, nil
}

// FetchDetail loads a job's detail page and returns its free-text
// sections keyed by field name.
func (s *BrowserSession) FetchDetail(ctx context.Context, row JobRow) (map[string]string, error) {
	page, err := s.browser.Page(rod.PageInfo{})
	if err != nil {
		return nil, fmt.Errorf("%w: open detail page for %s: %v", errs.ErrFetch, row.JobID, err)
	}
	if err := page.Context(ctx).Navigate(row.URL); err != nil {
		return nil, fmt.Errorf("%w: navigate to %s: %v", errs.ErrFetch, row.URL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: wait for detail page %s: %v", errs.ErrFetch, row.JobID, err)
	}

	fields := map[string]string{}
	for _, sel := range []string{"title", "company", "summary", "responsibilities", "skills", "additional_info", "compensation"} {
		el, err := page.Element(`[data-field="` + sel + `"]`)
		if err != nil {
			continue
		}
		text, err := el.Text()
		if err != nil {
			continue
		}
		fields[sel] = text
	}
	return fields, nil
}

// SaveToFolder saves a job to a named portal folder.
func (s *BrowserSession) SaveToFolder(ctx context.Context, jobID, folder string) error {
	page, err := s.browser.Page(rod.PageInfo{})
	if err != nil {
		return fmt.Errorf("%w: open job %s for save: %v", errs.ErrFetch, jobID, err)
	}
	button, err := page.Context(ctx).Element(`button[data-action="save-to-folder"]`)
	if err != nil {
		return fmt.Errorf("%w: locate save button for %s: %v", errs.ErrFetch, jobID, err)
	}
	return button.Click(rod.Left, 1)
}

// Apply submits an application for jobID using whatever documents are
// already attached in the portal's application form. Before clicking
// the apply button it checks the page for the states the portal reports
// instead of a plain submission: an external application redirect,
// unanswered prescreen questions, or missing required documents.
func (s *BrowserSession) Apply(ctx context.Context, jobID string) (ApplyOutcome, error) {
	page, err := s.browser.Page(rod.PageInfo{})
	if err != nil {
		return ApplyOutcomeFailed, fmt.Errorf("%w: open job %s for apply: %v", errs.ErrFetch, jobID, err)
	}
	page = page.Context(ctx)

	if ok, _, err := page.Has(`[data-state="external-application"]`); err == nil && ok {
		return ApplyOutcomeSkippedExternal, nil
	}
	if ok, _, err := page.Has(`[data-state="prescreen-questions"]`); err == nil && ok {
		return ApplyOutcomeSkippedPrescreen, nil
	}
	if ok, _, err := page.Has(`[data-state="missing-documents"]`); err == nil && ok {
		return ApplyOutcomeSkippedExtraDocs, nil
	}

	button, err := page.Element(`button[data-action="apply"]`)
	if err != nil {
		return ApplyOutcomeFailed, fmt.Errorf("%w: locate apply button for %s: %v", errs.ErrFetch, jobID, err)
	}
	if err := button.Click(rod.Left, 1); err != nil {
		return ApplyOutcomeFailed, fmt.Errorf("%w: click apply button for %s: %v", errs.ErrFetch, jobID, err)
	}
	return ApplyOutcomeSubmitted, nil
}

// UploadDocument attaches a local file to the current application form.
func (s *BrowserSession) UploadDocument(ctx context.Context, jobID, documentPath string) error {
	page, err := s.browser.Page(rod.PageInfo{})
	if err != nil {
		return fmt.Errorf("%w: open job %s for upload: %v", errs.ErrFetch, jobID, err)
	}
	input, err := page.Context(ctx).Element(`input[type="file"]`)
	if err != nil {
		return fmt.Errorf("%w: locate file input for %s: %v", errs.ErrFetch, jobID, err)
	}
	return input.SetFiles([]string{documentPath})
}

// Close shuts down the browser. Safe to call more than once.
func (s *BrowserSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.browser.Close()
}
