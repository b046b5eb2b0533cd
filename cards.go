package folio

import (
	"context"
	"errors"

	"github.com/joeycatai/folio/routes"
)

// Card is the PNG produced for one OG route.
type Card struct {
	PNG      []byte
	Cached   bool // served from the store
	Degraded bool // the placeholder, after a failed render
}

// Card returns the card for r. With useCache it is read from the store
// when an earlier successful render exists. Fresh successful renders are
// written back; degraded ones never are, so a later run retries them.
func (a *App) Card(ctx context.Context, r routes.Route, useCache bool) Card {
	key := a.Generator.Key(r.Request)
	if useCache {
		if data, ok := a.storedCard(ctx, key, r.Path); ok {
			return Card{PNG: data, Cached: true}
		}
	}
	return a.renderCard(ctx, r, key)
}

func (a *App) storedCard(ctx context.Context, key, path string) ([]byte, bool) {
	if a.Store == nil {
		return nil, false
	}
	data, err := a.Store.GetImage(ctx, key)
	switch {
	case err == nil:
		return data, true
	case !errors.Is(err, ErrNotFound):
		a.logger.Warnf("og: read cached card %s: %v", path, err)
	}
	return nil, false
}

func (a *App) renderCard(ctx context.Context, r routes.Route, key string) Card {
	res := a.Generator.Generate(ctx, r.Request)
	if !res.Degraded && a.Store != nil {
		if err := a.Store.PutImage(ctx, key, r.Path, res.PNG); err != nil {
			a.logger.Warnf("og: store card %s: %v", r.Path, err)
		}
	}
	return Card{PNG: res.PNG, Degraded: res.Degraded}
}
