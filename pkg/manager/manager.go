// Package manager owns the per-root flattened file maps and keeps them
// consistent with the remote file service across fetch, create, delete and
// move operations. Every public operation is deduplicated: repeats with
// equal arguments inside a short window share one result instead of
// issuing another remote call.
package manager

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/allansene/orchest/pkg/dedupe"
	"github.com/allansene/orchest/pkg/filesvc"
	"github.com/allansene/orchest/pkg/filetree"
	"github.com/allansene/orchest/pkg/logging"
)

// FileService is the remote file-service surface the manager consumes.
// *filesvc.Client satisfies it; tests inject fakes.
type FileService interface {
	FetchSubtree(ctx context.Context, scope filesvc.Scope, root, path string, depth int) (*filetree.TreeNode, error)
	CreateFile(ctx context.Context, scope filesvc.Scope, root, path string) error
	CreateDirectory(ctx context.Context, scope filesvc.Scope, root, path string) error
	DeleteNode(ctx context.Context, scope filesvc.Scope, root, path string) error
	MoveNode(ctx context.Context, scope filesvc.Scope, req filesvc.MoveRequest) error
}

// MoveSpec aliases the wire-level move descriptor.
type MoveSpec = filesvc.MoveRequest

// Options configures a Manager.
type Options struct {
	// Roots are the independently cached namespaces. Empty uses the
	// conventional project-dir and data roots.
	Roots []string

	// DefaultDepth is used when a root has no materialized depth yet.
	// Zero means 2.
	DefaultDepth int

	// DedupeWindow is how long settled operation results keep absorbing
	// duplicate triggers. Zero uses the dedupe package default.
	DedupeWindow time.Duration
}

// Manager is the root-scoped cache manager. All exported methods are safe
// for concurrent use; each state update installs freshly built maps
// wholesale, so readers never observe a map mid-merge.
type Manager struct {
	svc          FileService
	roots        []string
	defaultDepth int

	calls  *dedupe.Group
	notify *notifier
	log    *logging.Logger

	mu    sync.RWMutex
	maps  map[string]*filetree.FileMap
	scope filesvc.Scope
}

// New creates a Manager backed by the given remote service.
func New(svc FileService, opts Options) *Manager {
	roots := opts.Roots
	if len(roots) == 0 {
		roots = []string{"project-dir", "data"}
	}
	depth := opts.DefaultDepth
	if depth <= 0 {
		depth = 2
	}

	return &Manager{
		svc:          svc,
		roots:        roots,
		defaultDepth: depth,
		calls:        dedupe.New(opts.DedupeWindow),
		notify:       newNotifier(),
		log:          logging.Get("manager"),
		maps:         make(map[string]*filetree.FileMap),
	}
}

// Roots returns the known root names.
func (m *Manager) Roots() []string {
	out := make([]string, len(m.roots))
	copy(out, m.roots)
	return out
}

// Scope returns the current scope.
func (m *Manager) Scope() filesvc.Scope {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scope
}

// Map returns the flattened map for one root. The returned map is
// immutable; a later operation installs a replacement rather than editing
// it in place.
func (m *Manager) Map(root string) (*filetree.FileMap, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fm, ok := m.maps[root]
	return fm, ok
}

// Maps returns a snapshot of the root->map mapping.
func (m *Manager) Maps() map[string]*filetree.FileMap {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*filetree.FileMap, len(m.maps))
	for root, fm := range m.maps {
		out[root] = fm
	}
	return out
}

// Subscribe registers for change events. Events are dropped rather than
// blocking slow consumers.
func (m *Manager) Subscribe() *Subscription {
	return m.notify.subscribe()
}

// Unsubscribe cancels a subscription.
func (m *Manager) Unsubscribe(id string) {
	m.notify.unsubscribe(id)
}

// Close terminates all subscriptions.
func (m *Manager) Close() {
	m.notify.close()
}

// Init sets the scope and materializes every known root down to depth
// levels, replacing each root's map wholesale. A root whose fetch fails is
// omitted without blocking its siblings. Returns the new root->map
// mapping, or nil when the scope is incomplete.
func (m *Manager) Init(ctx context.Context, depth int, scope filesvc.Scope) (map[string]*filetree.FileMap, error) {
	key := opKey("init", strconv.Itoa(depth), scope.Key())
	return dedupe.Do(m.calls, key, func() (map[string]*filetree.FileMap, error) {
		if !scope.Complete() {
			m.log.Debug("init skipped, scope incomplete")
			return nil, nil
		}

		m.mu.Lock()
		m.scope = scope
		m.mu.Unlock()

		fetched := m.fetchRoots(ctx, scope, func(string) int { return depth })

		m.mu.Lock()
		m.maps = fetched
		m.mu.Unlock()

		m.notify.notify(Event{Op: OpInit})
		m.log.Info("tree initialized", "roots", len(fetched), "depth", depth)
		return m.Maps(), nil
	})
}

// Refresh re-fetches every known root at the depth it was last observed to
// be materialized (falling back to the default depth), under the current
// scope. Roots that fail keep their previous map and are left out of the
// returned mapping.
func (m *Manager) Refresh(ctx context.Context) (map[string]*filetree.FileMap, error) {
	return dedupe.Do(m.calls, opKey("refresh"), func() (map[string]*filetree.FileMap, error) {
		m.mu.RLock()
		scope := m.scope
		depths := make(map[string]int, len(m.roots))
		for _, root := range m.roots {
			depths[root] = m.defaultDepth
			if fm, ok := m.maps[root]; ok && fm.Depth() > 0 {
				depths[root] = fm.Depth()
			}
		}
		m.mu.RUnlock()

		if !scope.Complete() {
			m.log.Debug("refresh skipped, scope incomplete")
			return nil, nil
		}

		fetched := m.fetchRoots(ctx, scope, func(root string) int { return depths[root] })

		m.mu.Lock()
		for root, fm := range fetched {
			m.maps[root] = fm
		}
		m.mu.Unlock()

		m.notify.notify(Event{Op: OpRefresh})
		m.log.Debug("tree refreshed", "roots", len(fetched))
		return fetched, nil
	})
}

// Expand fetches one directory one level deep and merges the listing into
// the root's map, pruning direct children the remote no longer reports. A
// file path expands its containing directory. A remote miss, like an
// incomplete scope, is a no-op.
func (m *Manager) Expand(ctx context.Context, root, dir string) error {
	return m.ExpandScoped(ctx, root, dir, filesvc.Scope{})
}

// ExpandScoped is Expand with scope identifiers overriding the current
// scope for this one fetch.
func (m *Manager) ExpandScoped(ctx context.Context, root, dir string, override filesvc.Scope) error {
	dir = filetree.ContainingDirectory(dir)
	key := opKey("expand", root, dir, override.Key())
	_, err := m.calls.Do(key, func() (any, error) {
		scope := m.Scope().Merge(override)
		if !scope.Complete() {
			m.log.Debug("expand skipped, scope incomplete", "root", root, "dir", dir)
			return nil, nil
		}

		node, err := m.svc.FetchSubtree(ctx, scope, root, dir, 1)
		if errors.Is(err, filesvc.ErrNotFound) {
			m.log.Debug("expand miss", "root", root, "dir", dir)
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if node == nil {
			return nil, nil
		}

		listing := filetree.Flatten(node, time.Now())

		m.mu.Lock()
		next := filetree.NewFileMap()
		if prev, ok := m.maps[root]; ok {
			next = prev.Clone()
		}
		// The directory's own self-parented entry must not join the
		// replacement set: pruning its contents would otherwise
		// delete the directory itself. It stays only when the map
		// has no entry for the directory yet.
		if next.Has(dir) {
			listing.RemoveEntry(dir)
		}
		next.Replace(dir, listing)
		m.maps[root] = next
		m.mu.Unlock()

		m.notify.notify(Event{Op: OpExpand, Root: root, Path: dir})
		return nil, nil
	})
	return err
}

// Create creates a file (or, with a trailing separator, a directory) at
// path in the given root. The entry is added locally only after the remote
// create succeeds; a remote rejection propagates with no local mutation.
func (m *Manager) Create(ctx context.Context, root, path string) error {
	path = filetree.Normalize(path)
	_, err := m.calls.Do(opKey("create", root, path), func() (any, error) {
		scope := m.Scope()
		if !scope.Complete() {
			m.log.Debug("create skipped, scope incomplete", "root", root, "path", path)
			return nil, nil
		}

		var err error
		if filetree.IsDirectory(path) {
			err = m.svc.CreateDirectory(ctx, scope, root, path)
		} else {
			err = m.svc.CreateFile(ctx, scope, root, path)
		}
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		next := filetree.NewFileMap()
		if prev, ok := m.maps[root]; ok {
			next = prev.Clone()
		}
		next.Add(path, filetree.Entry{ParentPath: filetree.Dirname(path), FetchedAt: time.Now()})
		m.maps[root] = next
		m.mu.Unlock()

		m.notify.notify(Event{Op: OpCreate, Root: root, Path: path})
		m.log.Info("created", "root", root, "path", path)
		return nil, nil
	})
	return err
}

// Delete removes the node at path in the given root, together with its
// descendants when it is a directory. Local state changes only after the
// remote delete succeeds.
func (m *Manager) Delete(ctx context.Context, root, path string) error {
	path = filetree.Normalize(path)
	_, err := m.calls.Do(opKey("delete", root, path), func() (any, error) {
		scope := m.Scope()
		if !scope.Complete() {
			m.log.Debug("delete skipped, scope incomplete", "root", root, "path", path)
			return nil, nil
		}

		if err := m.svc.DeleteNode(ctx, scope, root, path); err != nil {
			return nil, err
		}

		m.mu.Lock()
		if prev, ok := m.maps[root]; ok {
			next := prev.Clone()
			next.Remove(path)
			m.maps[root] = next
		}
		m.mu.Unlock()

		m.notify.notify(Event{Op: OpDelete, Root: root, Path: path})
		m.log.Info("deleted", "root", root, "path", path)
		return nil, nil
	})
	return err
}

// Move relocates a subtree between two root/path locations, possibly
// across roots. Local maps are rewritten only after the remote move
// succeeds; a source path the cache does not know is left to the next
// refresh to reconcile.
func (m *Manager) Move(ctx context.Context, spec MoveSpec) error {
	spec.SourcePath = filetree.Normalize(spec.SourcePath)
	spec.DestinationPath = filetree.Normalize(spec.DestinationPath)
	key := opKey("move", spec.SourceRoot, spec.SourcePath, spec.DestinationRoot, spec.DestinationPath)
	_, err := m.calls.Do(key, func() (any, error) {
		scope := m.Scope()
		if !scope.Complete() {
			m.log.Debug("move skipped, scope incomplete", "source", spec.SourcePath)
			return nil, nil
		}

		if err := m.svc.MoveNode(ctx, scope, spec); err != nil {
			return nil, err
		}

		m.mu.Lock()
		src, ok := m.maps[spec.SourceRoot]
		if ok {
			src = src.Clone()
			var dst *filetree.FileMap
			if spec.DestinationRoot == spec.SourceRoot {
				dst = src
			} else if prev, ok := m.maps[spec.DestinationRoot]; ok {
				dst = prev.Clone()
			} else {
				dst = filetree.NewFileMap()
			}
			filetree.Move(src, dst, spec.SourcePath, spec.DestinationPath)
			m.maps[spec.SourceRoot] = src
			m.maps[spec.DestinationRoot] = dst
		}
		m.mu.Unlock()

		m.notify.notify(Event{Op: OpMove, Root: spec.DestinationRoot, Path: spec.DestinationPath})
		m.log.Info("moved",
			"from", spec.SourceRoot+":"+spec.SourcePath,
			"to", spec.DestinationRoot+":"+spec.DestinationPath)
		return nil, nil
	})
	return err
}

// fetchRoots fans a subtree fetch out over every known root. Failures are
// swallowed per root: the failing root is simply absent from the result.
func (m *Manager) fetchRoots(ctx context.Context, scope filesvc.Scope, depth func(root string) int) map[string]*filetree.FileMap {
	fetched := make(map[string]*filetree.FileMap, len(m.roots))
	for _, root := range m.roots {
		node, err := m.svc.FetchSubtree(ctx, scope, root, "/", depth(root))
		if err != nil || node == nil {
			m.log.Debug("root unavailable", "root", root, "err", err)
			continue
		}
		fetched[root] = filetree.Flatten(node, time.Now())
	}
	return fetched
}

// opKey builds a deduplication key from an operation name and arguments.
func opKey(parts ...string) string {
	return strings.Join(parts, "\x1f")
}
