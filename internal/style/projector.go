package style

import (
	"sync"

	"github.com/jsvensson/customtheme/internal/theme"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("customtheme.style")

// Projector owns every write to a Root. Apply is idempotent for unchanged
// inputs.
type Projector struct {
	mu      sync.Mutex
	root    Root
	applied map[string]struct{}
}

func NewProjector(root Root) *Projector {
	return &Projector{root: root, applied: make(map[string]struct{})}
}

// Root returns the target the projector writes to.
func (p *Projector) Root() Root {
	return p.root
}

// Apply sets a property for every color when sel is custom and colors is
// non-empty. Otherwise it removes the properties of every known key. Keys the
// projector set earlier that are absent from colors are always removed.
func (p *Projector) Apply(sel theme.Selector, colors theme.Colors) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sel == theme.SelectorCustom && len(colors) > 0 {
		for key := range p.applied {
			if _, ok := colors[key]; !ok {
				p.root.RemoveProperty(PropertyName(key))
				delete(p.applied, key)
			}
		}
		for _, key := range colors.Keys() {
			p.root.SetProperty(PropertyName(key), colors[key])
			p.applied[key] = struct{}{}
		}
		log.Debugf("applied %d custom properties", len(colors))
		return
	}

	p.removeLocked(colors)
}

// Clear removes the properties of every key in colors and every key the
// projector has set.
func (p *Projector) Clear(colors theme.Colors) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeLocked(colors)
}

func (p *Projector) removeLocked(colors theme.Colors) {
	removed := 0
	for key := range colors {
		p.root.RemoveProperty(PropertyName(key))
		delete(p.applied, key)
		removed++
	}
	for key := range p.applied {
		p.root.RemoveProperty(PropertyName(key))
		delete(p.applied, key)
		removed++
	}
	if removed > 0 {
		log.Debugf("removed %d custom properties", removed)
	}
}
