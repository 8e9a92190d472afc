package app

import (
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/waozixyz/iconview/iconconfig"
	"github.com/waozixyz/iconview/internal/project"
	"github.com/waozixyz/iconview/loader"
	"github.com/waozixyz/iconview/preview"
	"github.com/waozixyz/iconview/render"
	"github.com/waozixyz/iconview/texcache"
)

// session is everything built from one project load. Closing it releases
// every texture the preview cache holds.
type session struct {
	project  *project.Project
	resolver *iconconfig.Resolver
	files    *loader.Files
	guard    *preview.Guard
	rows     []iconconfig.Row
	logger   *zap.Logger
}

func openSession(path string, r render.Renderer, logger *zap.Logger) (*session, error) {
	p, err := project.Load(path)
	if err != nil {
		return nil, err
	}
	return newSession(p, p.FS(), r, logger)
}

func newSession(p *project.Project, fsys fs.FS, r render.Renderer, logger *zap.Logger) (*session, error) {
	index, err := p.Index(fsys)
	if err != nil {
		return nil, fmt.Errorf("atlas layouts: %w", err)
	}
	catalog, err := p.Catalog()
	if err != nil {
		return nil, err
	}

	resolver := iconconfig.NewResolver(index, iconconfig.WithResolverLogger(logger.Named("resolver")))
	files := loader.NewFiles(fsys, p.Registry(), loader.WithLogger(logger.Named("loader")))
	cache := texcache.New(resolver, files, r.Uploader(), texcache.WithLogger(logger.Named("texcache")))
	guard := preview.New(cache, catalog, r.Bridge(), preview.WithLogger(logger.Named("preview")))

	logger.Info("Project loaded",
		zap.String("root", p.Root),
		zap.Int("atlases", index.Len()),
		zap.Int("presets", catalog.Len()),
		zap.Int("fields", len(p.Fields)),
		zap.Int("rows", len(p.Rows)))
	logger.Debug("Atlases indexed", zap.Strings("names", index.Names()))

	return &session{
		project:  p,
		resolver: resolver,
		files:    files,
		guard:    guard,
		rows:     p.GridRows(),
		logger:   logger,
	}, nil
}

func (s *session) close() {
	s.guard.ClearAll()
	s.resolver.Reset()
	s.files.Reset()
}
