// Package workspace orchestrates an open workspace: the crawled file
// list, the selection set, and the tree derived from them.
package workspace

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/Dicklesworthstone/context_loader/pkg/config"
	"github.com/Dicklesworthstone/context_loader/pkg/loader"
	"github.com/Dicklesworthstone/context_loader/pkg/model"
	"github.com/Dicklesworthstone/context_loader/pkg/tokens"
	"github.com/Dicklesworthstone/context_loader/pkg/tree"
)

// Options controls how a workspace is opened.
type Options struct {
	// Estimator selects the token counting strategy. The workspace
	// config's estimator, when set, takes precedence.
	Estimator tokens.Estimator

	// CountTokens enables token counting during Open and Refresh.
	CountTokens bool

	// EnsureIgnored appends the state directory to the workspace
	// .gitignore when missing.
	EnsureIgnored bool
}

// Session owns the authoritative file list and selection set for the
// currently open workspace. Every selection-affecting mutation goes
// through it: the set is updated first, then the tree is rebuilt
// wholesale so folder states can never be stale.
type Session struct {
	root string
	cfg  *config.WorkspaceConfig

	estimator tokens.Estimator
	cache     *tokens.Cache
	count     bool

	files    []model.FileRecord
	selected model.SelectionSet
	forest   []*model.TreeNode
}

// Open runs the full pipeline for root: crawl, gitignore seeding,
// tree build, selection recompute, and expand-state restore.
func Open(ctx context.Context, root string, opts Options) (*Session, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}

	cfg, err := config.LoadWorkspaceConfig(abs, loader.StateDirName)
	if err != nil {
		log.Printf("warning: %v", err)
		cfg = &config.WorkspaceConfig{}
	}

	s := &Session{
		root:      abs,
		cfg:       cfg,
		estimator: opts.Estimator,
		count:     opts.CountTokens,
		selected:  model.NewSelectionSet(),
	}
	if cfg.Estimator != "" {
		if e, err := tokens.ParseEstimator(cfg.Estimator); err == nil {
			s.estimator = e
		} else {
			log.Printf("warning: %v", err)
		}
	}
	if !s.estimator.IsValid() {
		s.estimator = tokens.DefaultEstimator
	}

	if opts.EnsureIgnored {
		if err := loader.EnsureStateDirIgnored(abs); err != nil {
			log.Printf("warning: could not update .gitignore: %v", err)
		}
	}

	if s.count {
		cachePath := filepath.Join(abs, loader.StateDirName, tokens.CacheFileName)
		cache, err := tokens.OpenCache(cachePath)
		if err != nil {
			log.Printf("warning: token cache disabled: %v", err)
		} else {
			s.cache = cache
		}
	}

	files, err := loader.Crawl(abs)
	if err != nil {
		return nil, fmt.Errorf("crawl workspace: %w", err)
	}
	s.files = s.applyExtraIgnores(files)

	seeded, err := loader.SeedSelection(abs, s.files)
	if err != nil {
		// Unreadable .gitignore: fall back to nothing selected so the
		// user starts from an explicit empty state.
		log.Printf("warning: gitignore seeding failed, starting with empty selection: %v", err)
		seeded = model.NewSelectionSet()
	}
	s.selected = seeded

	if err := s.countTokens(ctx); err != nil {
		return nil, err
	}

	s.rebuild()
	applyTreeState(s.forest, loadTreeState(abs))
	return s, nil
}

// Close releases session resources.
func (s *Session) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

// Root returns the absolute workspace root.
func (s *Session) Root() string { return s.root }

// Config returns the per-workspace configuration.
func (s *Session) Config() *config.WorkspaceConfig { return s.cfg }

// Estimator returns the effective token estimator.
func (s *Session) Estimator() tokens.Estimator { return s.estimator }

// SetEstimator switches the token estimator. Existing counts belong
// to the old strategy, so every record is cleared before the selected
// files are recounted.
func (s *Session) SetEstimator(ctx context.Context, est tokens.Estimator) error {
	if !est.IsValid() {
		return fmt.Errorf("unknown token estimator: %q", est)
	}
	if est == s.estimator {
		return nil
	}
	s.estimator = est
	for i := range s.files {
		s.files[i].Tokens = 0
	}
	return s.countTokens(ctx)
}

// Forest returns the current derived tree.
func (s *Session) Forest() []*model.TreeNode { return s.forest }

// Files returns the current flat file list.
func (s *Session) Files() []model.FileRecord { return s.files }

// SelectedPaths returns the selected absolute paths in sorted order.
func (s *Session) SelectedPaths() []string { return s.selected.Sorted() }

// SelectedCount returns the number of selected files.
func (s *Session) SelectedCount() int { return s.selected.Len() }

// SelectedTokens sums the token counts of all selected files.
func (s *Session) SelectedTokens() int {
	total := 0
	for _, rec := range s.files {
		if s.selected.Contains(rec.Path) {
			total += rec.Tokens
		}
	}
	return total
}

// ToggleNode applies a checkbox change to the node with the given ID.
// For a folder every descendant file path is inserted or removed as
// one unit before the rebuild, so no tree ever reflects a partial
// batch. Newly selected files get their tokens counted. Returns the
// new forest.
func (s *Session) ToggleNode(ctx context.Context, id int, checked bool) ([]*model.TreeNode, error) {
	node := model.FindByID(s.forest, id)
	if node == nil {
		return s.forest, fmt.Errorf("no node with id %d", id)
	}
	tree.ApplyToggle(s.selected, node, checked)
	if err := s.countTokens(ctx); err != nil {
		log.Printf("warning: %v", err)
	}
	s.rebuild()
	return s.forest, nil
}

// SelectAll selects every file in the workspace.
func (s *Session) SelectAll(ctx context.Context) []*model.TreeNode {
	for _, rec := range s.files {
		s.selected.Add(rec.Path)
	}
	if err := s.countTokens(ctx); err != nil {
		log.Printf("warning: %v", err)
	}
	s.rebuild()
	return s.forest
}

// DeselectAll clears the selection.
func (s *Session) DeselectAll() []*model.TreeNode {
	s.selected = model.NewSelectionSet()
	s.rebuild()
	return s.forest
}

// ToggleExpanded flips a folder's expand state and persists it. The
// selection set is untouched and no rebuild happens.
func (s *Session) ToggleExpanded(id int) []*model.TreeNode {
	node := model.FindByID(s.forest, id)
	if node == nil || !node.IsFolder() {
		return s.forest
	}
	node.Expanded = !node.Expanded
	saveTreeState(s.root, s.forest)
	return s.forest
}

// CrawlSnapshot re-lists the workspace without touching any session
// state. It only reads fields that are fixed at Open, so it may run on
// a background goroutine while the owning goroutine keeps reading the
// session. Feed the result to ApplyRefresh.
func (s *Session) CrawlSnapshot() ([]model.FileRecord, error) {
	files, err := loader.Crawl(s.root)
	if err != nil {
		return nil, fmt.Errorf("crawl workspace: %w", err)
	}
	return s.applyExtraIgnores(files), nil
}

// ApplyRefresh installs a crawl snapshot. The selection is retained
// but pruned to paths that still exist; the gitignore seeding is not
// re-run, so user toggles survive. Must be called from the goroutine
// that owns the session.
func (s *Session) ApplyRefresh(ctx context.Context, files []model.FileRecord) error {
	s.files = files

	existing := make(map[string]struct{}, len(s.files))
	for _, rec := range s.files {
		existing[rec.Path] = struct{}{}
	}
	for _, p := range s.selected.Sorted() {
		if _, ok := existing[p]; !ok {
			s.selected.Remove(p)
		}
	}
	if s.cache != nil {
		if err := s.cache.Prune(existing); err != nil {
			log.Printf("warning: token cache prune: %v", err)
		}
	}

	if err := s.countTokens(ctx); err != nil {
		return err
	}

	state := loadTreeState(s.root)
	s.rebuild()
	applyTreeState(s.forest, state)
	return nil
}

// Refresh re-crawls the workspace after external file changes and
// applies the result in one call.
func (s *Session) Refresh(ctx context.Context) error {
	files, err := s.CrawlSnapshot()
	if err != nil {
		return err
	}
	return s.ApplyRefresh(ctx, files)
}

// applyExtraIgnores drops files matched by the workspace config's
// extra ignore patterns.
func (s *Session) applyExtraIgnores(files []model.FileRecord) []model.FileRecord {
	if len(s.cfg.ExtraIgnores) == 0 {
		return files
	}
	pm := loader.CompilePatterns(s.cfg.ExtraIgnores)

	kept := files[:0]
	for _, rec := range files {
		rel, err := filepath.Rel(s.root, rec.Path)
		if err == nil && pm.Ignored(filepath.ToSlash(rel)) {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

// countTokens estimates lazily: only selected files that do not carry
// a count yet are read. Deselected files keep their counts, which stay
// valid because counts are cleared whenever the estimator changes.
func (s *Session) countTokens(ctx context.Context) error {
	if !s.count {
		return nil
	}
	pending := make([]*model.FileRecord, 0, s.selected.Len())
	for i := range s.files {
		if s.files[i].Tokens == 0 && s.selected.Contains(s.files[i].Path) {
			pending = append(pending, &s.files[i])
		}
	}
	if len(pending) == 0 {
		return nil
	}
	if err := tokens.CountAll(ctx, s.estimator, pending, s.cache); err != nil {
		return fmt.Errorf("count tokens: %w", err)
	}
	return nil
}

// rebuild derives a fresh tree from the file list and selection set.
// Folder expansion is carried over from the previous tree so a toggle
// never collapses what the user had open.
func (s *Session) rebuild() {
	expanded := make(map[string]bool)
	for _, top := range s.forest {
		top.Walk(func(n *model.TreeNode) bool {
			if n.IsFolder() {
				expanded[n.Path] = n.Expanded
			}
			return true
		})
	}

	s.forest = tree.BuildForest(s.files, s.selected, s.root)
	tree.RecomputeAll(s.forest)

	for _, top := range s.forest {
		top.Walk(func(n *model.TreeNode) bool {
			if n.IsFolder() {
				if e, ok := expanded[n.Path]; ok {
					n.Expanded = e
				}
			}
			return true
		})
	}
}
