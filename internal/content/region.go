package content

import (
	"context"
	"fmt"

	"github.com/nolindnaidoo/termfolio/internal/logx"
	"github.com/nolindnaidoo/termfolio/schema"
)

// FailureInfo describes a panel that could not be rendered.
type FailureInfo struct {
	Section schema.Section `json:"section"`
	Message string         `json:"message"`
	Retry   string         `json:"retry"`
}

// Result is either a rendered panel or the fallback shown in its place.
// Panel is always displayable; Failure is set when it is the fallback.
type Result struct {
	Panel   Panel        `json:"panel"`
	Failure *FailureInfo `json:"failure,omitempty"`
}

// RenderFunc produces a panel for a section.
type RenderFunc func(ctx context.Context, section schema.Section) (Panel, error)

// Region isolates panel rendering: an error or panic inside render is
// replaced by a fallback panel and never escapes to the caller.
type Region struct {
	render RenderFunc
}

// NewRegion wraps render.
func NewRegion(render RenderFunc) *Region {
	return &Region{render: render}
}

// ProfileRegion renders p with fixed options.
func ProfileRegion(p Profile, opts Options) *Region {
	return NewRegion(func(_ context.Context, section schema.Section) (Panel, error) {
		return Render(p, section, opts)
	})
}

// Render renders section, substituting the fallback on failure. Calling it
// again is the retry action.
func (r *Region) Render(ctx context.Context, section schema.Section) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			result = failed(ctx, section, fmt.Errorf("panic: %v", rec))
		}
	}()
	if r == nil || r.render == nil {
		return failed(ctx, section, fmt.Errorf("no renderer"))
	}
	panel, err := r.render(ctx, section)
	if err != nil {
		return failed(ctx, section, err)
	}
	return Result{Panel: panel}
}

func failed(ctx context.Context, section schema.Section, err error) Result {
	logx.WithAction(logx.WithSection(logx.Ctx(ctx), section), "content", "render").Error("content panel failed", "err", err)
	return Result{
		Panel: FallbackPanel(section),
		Failure: &FailureInfo{
			Section: section,
			Message: fmt.Sprintf("Something went wrong displaying %s.", Title(section)),
			Retry:   "Try Again",
		},
	}
}

// FallbackPanel is shown in place of a panel that failed to render.
func FallbackPanel(section schema.Section) Panel {
	title := Title(section)
	return Panel{
		Section: section,
		Title:   title + " - Error",
		Lines: []string{
			"Content Unavailable",
			"",
			"This section encountered an issue, but you can still navigate",
			"using the terminal or try refreshing this content.",
			"",
			"[ Try Again ]",
			"",
			"Tip: Use the terminal on the right to navigate to other sections",
		},
	}
}
