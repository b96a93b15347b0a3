package filehandler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
	"github.com/bizdocs-ai/bizdocs/internal/core/ports"
)

// Registry holds file handlers in registration order. Order is
// priority: a specialized handler registered first shadows a generic
// fallback for the types they share.
type Registry struct {
	handlers []ports.FileHandler
}

func NewRegistry(handlers ...ports.FileHandler) *Registry {
	r := &Registry{}
	for _, h := range handlers {
		r.Register(h)
	}
	return r
}

func (r *Registry) Register(handler ports.FileHandler) {
	r.handlers = append(r.handlers, handler)
}

func (r *Registry) Select(fileType string) (ports.FileHandler, error) {
	fileType = strings.ToLower(strings.TrimSpace(fileType))
	for _, handler := range r.handlers {
		if handler.CanHandle(fileType) {
			return handler, nil
		}
	}
	return nil, domain.WrapError(
		domain.ErrUnsupportedFileType,
		"select file handler",
		fmt.Errorf("no handler for type %q, supported: %s", fileType, strings.Join(r.SupportedTypes(), ", ")),
	)
}

func (r *Registry) SupportedTypes() []string {
	seen := make(map[string]struct{})
	for _, handler := range r.handlers {
		if lister, ok := handler.(interface{ Types() []string }); ok {
			for _, t := range lister.Types() {
				seen[t] = struct{}{}
			}
		}
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
