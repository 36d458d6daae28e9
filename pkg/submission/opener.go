package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"
)

// Opener performs the external-open side effect for a deep-link. It is a
// fire-and-forget hand-off: returning nil only means the URL was handed on.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, url string) error

func (fn OpenerFunc) Open(ctx context.Context, url string) error {
	if fn == nil {
		return errors.New("submission: opener func is nil")
	}
	return fn(ctx, url)
}

// WriterOpener prints the URL, one per line. Useful for terminals where the
// user copies the link by hand.
type WriterOpener struct {
	mu sync.Mutex
	W  io.Writer
}

func (o *WriterOpener) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if o == nil || o.W == nil {
		return errors.New("submission: writer opener has no writer")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := fmt.Fprintln(o.W, url)
	return err
}

// CommandOpener launches the platform URL handler (xdg-open, open, or
// rundll32). The child process is started and not waited on.
type CommandOpener struct {
	// Command overrides the launcher; the URL is appended to Args.
	Command string
	Args    []string
}

func (o CommandOpener) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, args := o.Command, append([]string(nil), o.Args...)
	if name == "" {
		name, args = platformLauncher()
	}
	if name == "" {
		return fmt.Errorf("submission: no URL launcher for %s", runtime.GOOS)
	}

	cmd := exec.Command(name, append(args, url)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("submission: launch %s: %w", name, err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func platformLauncher() (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", nil
	default:
		return "", nil
	}
}

type redirectKey struct{}

// Redirect receives the URL captured by RedirectOpener during one request.
type Redirect struct {
	mu  sync.Mutex
	url string
}

// URL reports the captured deep-link, or "" when nothing was dispatched.
func (r *Redirect) URL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.url
}

// WithRedirect attaches a fresh Redirect slot to ctx.
func WithRedirect(ctx context.Context) (context.Context, *Redirect) {
	slot := &Redirect{}
	return context.WithValue(ctx, redirectKey{}, slot), slot
}

// ErrNoRedirectTarget is returned by RedirectOpener when ctx carries no slot.
var ErrNoRedirectTarget = errors.New("submission: no redirect target in context")

// RedirectOpener hands the URL back to the caller through the Redirect slot
// in ctx. HTTP handlers use it to answer with a 303 to the deep-link.
type RedirectOpener struct{}

func (RedirectOpener) Open(ctx context.Context, url string) error {
	slot, ok := ctx.Value(redirectKey{}).(*Redirect)
	if !ok || slot == nil {
		return ErrNoRedirectTarget
	}
	slot.mu.Lock()
	slot.url = url
	slot.mu.Unlock()
	return nil
}
