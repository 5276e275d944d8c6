package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"
	"unicode/utf8"

	dcotel "github.com/Strob0t/DocuCrew/internal/adapter/otel"
	"github.com/Strob0t/DocuCrew/internal/domain"
	"github.com/Strob0t/DocuCrew/internal/domain/repository"
	"github.com/Strob0t/DocuCrew/internal/metrics"
	"github.com/Strob0t/DocuCrew/internal/port/cache"
	"github.com/Strob0t/DocuCrew/internal/port/repohost"
)

// ExtractorService builds repository snapshots from a repository host.
type ExtractorService struct {
	source   repohost.Source
	cache    cache.Cache
	ttl      time.Duration
	recorder metrics.Recorder
}

// NewExtractorService creates an extractor. c may be nil to disable
// snapshot caching; a non-positive ttl has the same effect.
func NewExtractorService(src repohost.Source, c cache.Cache, ttl time.Duration) *ExtractorService {
	if ttl <= 0 {
		c = nil
	}
	return &ExtractorService{source: src, cache: c, ttl: ttl, recorder: metrics.NoopRecorder{}}
}

// SetRecorder attaches a metrics recorder.
func (s *ExtractorService) SetRecorder(r metrics.Recorder) {
	s.recorder = metrics.OrNoop(r)
}

// Analyze resolves ref, extracts its snapshot, and shortlists API-like files.
func (s *ExtractorService) Analyze(ctx context.Context, ref string) (*repository.Snapshot, []repository.APIFile, error) {
	owner, name, err := repository.ParseIdentifier(ref)
	if err != nil {
		return nil, nil, err
	}
	snap, err := s.GetStructure(ctx, owner, name)
	if err != nil {
		return nil, nil, err
	}
	return snap, repository.FindAPIFiles(snap.Structure), nil
}

// GetStructure captures metadata, a depth-bounded file tree, and key file
// excerpts of owner/name. Listing and key file failures are tolerated; a
// failed metadata call fails the whole extraction with ErrRepositoryAccess.
func (s *ExtractorService) GetStructure(ctx context.Context, owner, name string) (snap *repository.Snapshot, err error) {
	ctx, span := dcotel.StartExtractSpan(ctx, owner, name)
	start := time.Now()
	defer func() {
		dcotel.EndSpan(span, err)
		s.recorder.ObserveExtraction(time.Since(start), metrics.Result(err))
	}()

	key := cache.Key("snapshot", owner+"/"+name, cache.Fingerprint(repohost.TokenFromContext(ctx)))
	if cached, ok := s.lookup(ctx, key); ok {
		return cached, nil
	}

	meta, err := s.source.Metadata(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %w", domain.ErrRepositoryAccess, owner, name, err)
	}
	languages, err := s.source.Languages(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s languages: %w", domain.ErrRepositoryAccess, owner, name, err)
	}
	topics, err := s.source.Topics(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s topics: %w", domain.ErrRepositoryAccess, owner, name, err)
	}

	tree := s.walk(ctx, owner, name, "", repository.MaxTreeDepth)

	snap = &repository.Snapshot{
		Owner:           owner,
		Name:            meta.Name,
		FullName:        meta.FullName,
		Description:     meta.Description,
		PrimaryLanguage: meta.PrimaryLanguage,
		Languages:       languages,
		Topics:          topicSet(topics),
		Stars:           meta.Stars,
		Forks:           meta.Forks,
		CreatedAt:       meta.CreatedAt,
		UpdatedAt:       meta.UpdatedAt,
		Structure:       tree,
		KeyFiles:        s.keyFiles(ctx, owner, name),
		FileCount:       repository.CountFiles(tree),
	}
	if snap.Name == "" {
		snap.Name = name
	}
	if snap.FullName == "" {
		snap.FullName = owner + "/" + name
	}

	slog.InfoContext(ctx, "repository snapshot extracted",
		"repo", snap.FullName,
		"files", snap.FileCount,
		"key_files", len(snap.KeyFiles),
		"duration", time.Since(start),
	)
	s.store(ctx, key, snap)
	return snap, nil
}

// walk lists dir and descends into subdirectories while depth is positive.
// Subdirectories met at depth 0 stay unexpanded leaves. A failed listing
// yields an empty subtree.
func (s *ExtractorService) walk(ctx context.Context, owner, name, dir string, depth int) repository.Tree {
	entries, err := s.source.ListDir(ctx, owner, name, dir)
	if err != nil {
		slog.DebugContext(ctx, "directory listing failed", "repo", owner+"/"+name, "path", dir, "error", err)
		return repository.Tree{}
	}

	tree := make(repository.Tree, 0, len(entries))
	for _, e := range entries {
		node := repository.Node{Type: e.Type, Size: e.Size, Path: e.Path}
		if e.Type == repository.TypeDir && depth > 0 {
			node.Children = s.walk(ctx, owner, name, e.Path, depth-1)
		}
		tree = append(tree, repository.Entry{Name: e.Name, Node: node})
	}
	return tree
}

// keyFiles reads the root-level key file candidates that exist as plain
// UTF-8 files, truncated to repository.MaxKeyFileChars.
func (s *ExtractorService) keyFiles(ctx context.Context, owner, name string) map[string]string {
	files := make(map[string]string)
	for _, candidate := range repository.KeyFileCandidates {
		data, err := s.source.ReadFile(ctx, owner, name, candidate)
		if err != nil {
			continue
		}
		if !utf8.Valid(data) {
			slog.DebugContext(ctx, "key file is not UTF-8", "repo", owner+"/"+name, "file", candidate)
			continue
		}
		files[candidate] = repository.TruncateKeyFile(string(data))
	}
	return files
}

func (s *ExtractorService) lookup(ctx context.Context, key string) (*repository.Snapshot, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, found, err := s.cache.Get(ctx, key)
	if err != nil || !found {
		s.recorder.IncSnapshotCache(false)
		return nil, false
	}
	var snap repository.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.WarnContext(ctx, "discarding undecodable cached snapshot", "key", key, "error", err)
		_ = s.cache.Delete(ctx, key)
		s.recorder.IncSnapshotCache(false)
		return nil, false
	}
	s.recorder.IncSnapshotCache(true)
	return &snap, true
}

func (s *ExtractorService) store(ctx context.Context, key string, snap *repository.Snapshot) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		slog.WarnContext(ctx, "snapshot encode failed", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		slog.WarnContext(ctx, "snapshot cache write failed", "key", key, "error", err)
	}
}

// topicSet returns the topics sorted with duplicates removed.
func topicSet(topics []string) []string {
	out := make([]string, 0, len(topics))
	out = append(out, topics...)
	sort.Strings(out)
	n := 0
	for i, t := range out {
		if i > 0 && t == out[n-1] {
			continue
		}
		out[n] = t
		n++
	}
	return out[:n]
}
