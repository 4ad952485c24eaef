package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Takheer/mstroy-test/pkg/cache"
	"github.com/Takheer/mstroy-test/pkg/tree"
)

// Output formats understood by [Renderer.Render].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// DefaultTTL is how long rendered SVG stays cached when Renderer.TTL is 0.
const DefaultTTL = 24 * time.Hour

// Renderer renders stores and caches the SVG output.
type Renderer struct {
	// Cache stores rendered SVG. A nil Cache disables caching.
	Cache cache.Cache

	// TTL is the lifetime of cached SVG. Defaults to DefaultTTL.
	TTL time.Duration
}

// Render draws s in the given format ("dot" or "svg"). DOT is cheap and
// never cached. SVG is looked up by a hash of the DOT source first; cache
// read and write failures fall back to rendering and are not reported.
func (r *Renderer) Render(ctx context.Context, s *tree.Store, opts Options, format string) ([]byte, error) {
	data, _, err := r.RenderCached(ctx, s, opts, format)
	return data, err
}

// RenderCached is like [Renderer.Render] and also reports whether the
// output came from the cache.
func (r *Renderer) RenderCached(ctx context.Context, s *tree.Store, opts Options, format string) ([]byte, bool, error) {
	dot := ToDOT(s, opts)

	switch strings.ToLower(format) {
	case FormatDOT:
		return []byte(dot), false, nil
	case FormatSVG, "":
	default:
		return nil, false, fmt.Errorf("unsupported render format %q (want dot or svg)", format)
	}

	if r.Cache == nil {
		svg, err := RenderSVG(ctx, dot)
		return svg, false, err
	}

	key := cache.Key(FormatSVG, dot)
	if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, false, err
	}

	ttl := r.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	_ = r.Cache.Set(ctx, key, svg, ttl)
	return svg, false, nil
}
