package contact

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/site"
	"github.com/goliatone/go-contactform/pkg/submission"
)

const maxBodyBytes = 64 << 10

// BusyMessage is shown when a submission arrives while the session is still
// submitting or showing its success state.
const BusyMessage = "Your previous message is still being sent. Please wait a moment."

type errorResponse struct {
	Error  string            `json:"error,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
	State  submission.State  `json:"state"`
}

func (c *Component) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodPost:
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead+", "+http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if c.opts.Guard != nil {
		if err := c.opts.Guard(r); err != nil {
			writeGuardError(w, err)
			return
		}
	}

	if r.Method == http.MethodPost {
		c.submit(w, r)
		return
	}
	c.show(w, r)
}

// show renders the page. Visitors without a live session get an empty form;
// their session is created by the first POST.
func (c *Component) show(w http.ResponseWriter, r *http.Request) {
	sess, err := c.sessions.lookup(c.sessionID(r, ""))
	if err != nil {
		c.fail(w, r, StatusError{Code: http.StatusServiceUnavailable, Err: err})
		return
	}

	var options render.RenderOptions
	if sess != nil {
		options.Values = sess.inst.Values()
		if sess.inst.State() == submission.StateSuccess {
			options.Notification = &submission.Notification{Level: submission.LevelSuccess, Message: submission.SuccessMessage}
		}
	}
	c.renderPage(w, r, http.StatusOK, sess, options)
}

func (c *Component) submit(w http.ResponseWriter, r *http.Request) {
	values, hint, err := readInput(w, r, c.opts.SessionField)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	sess, err := c.session(w, r, hint)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	sess.inst.SetAll(values)
	ctx, slot := submission.WithRedirect(r.Context())
	result, outcome, err := sess.inst.Submit(ctx)
	logger := c.opts.Logger.With(zap.String("session", sess.id))

	switch {
	case !result.Valid:
		logger.Debug("contact submission invalid", zap.Int("errors", len(result.Errors)))
		if wantsJSON(r) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Errors: result.Errors, State: outcome.State})
			return
		}
		c.renderPage(w, r, http.StatusUnprocessableEntity, sess, render.RenderOptions{
			Values: sess.inst.Values(),
			Errors: result.FieldErrors(),
		})

	case err == nil:
		target := slot.URL()
		if target == "" {
			target = outcome.URL
		}
		logger.Info("contact submission handed off")
		if wantsJSON(r) {
			outcome.URL = target
			writeJSON(w, http.StatusOK, outcome)
			return
		}
		http.Redirect(w, r, target, http.StatusSeeOther)

	case errors.Is(err, submission.ErrSubmissionInFlight), errors.Is(err, submission.ErrClosed):
		logger.Debug("contact submission refused", zap.Error(err))
		c.refuse(w, r, sess, http.StatusConflict, BusyMessage, outcome.State)

	default:
		var dispatchErr *submission.DispatchError
		if errors.As(err, &dispatchErr) {
			logger.Warn("contact hand-off failed", zap.Error(err))
			c.refuse(w, r, sess, http.StatusBadGateway, submission.DispatchMessage, outcome.State)
			return
		}
		logger.Warn("contact submission aborted", zap.Error(err))
		c.fail(w, r, StatusError{Code: http.StatusServiceUnavailable, Err: err})
	}
}

// refuse answers a submission that could not be handed off, keeping the
// visitor's input on the page.
func (c *Component) refuse(w http.ResponseWriter, r *http.Request, sess *session, code int, message string, state submission.State) {
	if wantsJSON(r) {
		writeJSON(w, code, errorResponse{Error: message, State: state})
		return
	}
	c.renderPage(w, r, code, sess, render.RenderOptions{
		Values:       sess.inst.Values(),
		Notification: &submission.Notification{Level: submission.LevelError, Message: message},
	})
}

func (c *Component) renderPage(w http.ResponseWriter, r *http.Request, code int, sess *session, options render.RenderOptions) {
	cfg := c.opts.Site()
	page, ok := cfg.Page(c.opts.PagePath)
	if !ok {
		page = site.Page{Path: c.opts.PagePath, Title: cfg.Contact.Heading}
	}
	form := &render.FormView{Action: r.URL.Path, Schema: c.schema, State: submission.StateIdle}
	if sess != nil {
		options.Hidden = render.MergeHiddenFields(options.Hidden, render.HiddenField{Name: c.opts.SessionField, Value: sess.id})
		form.Schema = sess.inst.Schema()
		form.State = sess.inst.State()
	}

	view := render.View{Site: cfg, Page: page, Form: form}
	body, err := c.renderer.Render(r.Context(), view, options)
	if err != nil {
		c.opts.Logger.Error("contact render failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", c.renderer.ContentType())
	w.WriteHeader(code)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

// session resolves the caller's session from the cookie, falling back to the
// hidden form field, and issues a new cookie when a session is created.
func (c *Component) session(w http.ResponseWriter, r *http.Request, hint string) (*session, error) {
	sess, created, err := c.sessions.acquire(c.sessionID(r, hint))
	if err != nil {
		return nil, StatusError{Code: http.StatusServiceUnavailable, Err: err}
	}
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     c.opts.CookieName,
			Value:    sess.id,
			Path:     "/",
			MaxAge:   int(c.opts.SessionTTL.Seconds()),
			HttpOnly: true,
			Secure:   c.opts.SecureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess, nil
}

// sessionID prefers the cookie over the hidden form field.
func (c *Component) sessionID(r *http.Request, hint string) string {
	if cookie, err := r.Cookie(c.opts.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return hint
}

func (c *Component) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err, http.StatusInternalServerError)
	if wantsJSON(r) {
		writeJSON(w, code, errorResponse{Error: http.StatusText(code)})
		return
	}
	http.Error(w, http.StatusText(code), code)
}

// readInput decodes a JSON object or a form-encoded body. The session field
// is split off and returned separately.
func readInput(w http.ResponseWriter, r *http.Request, sessionField string) (map[string]string, string, error) {
	values := map[string]string{}
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if isJSON(r.Header.Get("Content-Type")) {
		var payload map[string]any
		dec := json.NewDecoder(body)
		dec.UseNumber()
		if err := dec.Decode(&payload); err != nil {
			return nil, "", StatusError{Code: bodyStatus(err), Err: fmt.Errorf("contact: decode json: %w", err)}
		}
		for key, raw := range payload {
			switch typed := raw.(type) {
			case nil:
			case string:
				values[key] = typed
			case json.Number:
				values[key] = typed.String()
			default:
				values[key] = fmt.Sprint(typed)
			}
		}
	} else {
		r.Body = body
		if err := r.ParseForm(); err != nil {
			return nil, "", StatusError{Code: bodyStatus(err), Err: fmt.Errorf("contact: parse form: %w", err)}
		}
		for key, list := range r.PostForm {
			if len(list) > 0 {
				values[key] = list[0]
			}
		}
	}

	hint := values[sessionField]
	delete(values, sessionField)
	return values, hint, nil
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "application/json")
}

func wantsJSON(r *http.Request) bool {
	if isJSON(r.Header.Get("Content-Type")) {
		return true
	}
	return strings.Contains(strings.ToLower(r.Header.Get("Accept")), "application/json")
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeGuardError(w http.ResponseWriter, err error) {
	code := http.StatusForbidden
	if err != nil {
		code = statusOf(err, http.StatusForbidden)
	}
	http.Error(w, http.StatusText(code), code)
}

// bodyStatus maps a body read error to 413 when the size limit tripped.
func bodyStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
