package schema

import "fmt"

// Scale is the number of decimal places used by a scaled integer.
// Example: Scale=2 means the integer value is scaled by 1e2.
type Scale int32

// ScaleSpec defines scaling for the numeric fields of one symbol.
type ScaleSpec struct {
	PriceScale    Scale
	QuantityScale Scale
}

// SymbolID is the numeric identifier for a product.
type SymbolID uint32

// Symbol describes a tradable product.
type Symbol struct {
	ID    SymbolID
	Name  string
	Scale ScaleSpec
}

// Registry stores symbol mappings in a compact form. It is built once at
// startup and read-only afterwards.
type Registry struct {
	symbols      []Symbol
	symbolByName map[string]SymbolID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{symbolByName: make(map[string]SymbolID)}
}

// AddSymbol registers a new product and returns its ID.
func (r *Registry) AddSymbol(name string, scale ScaleSpec) (SymbolID, error) {
	if name == "" {
		return 0, fmt.Errorf("symbol name is empty")
	}
	if id, ok := r.symbolByName[name]; ok {
		return id, fmt.Errorf("symbol already exists: %s", name)
	}
	id := SymbolID(len(r.symbols) + 1)
	r.symbols = append(r.symbols, Symbol{ID: id, Name: name, Scale: scale})
	r.symbolByName[name] = id
	return id, nil
}

// Symbol returns the symbol for an ID.
func (r *Registry) Symbol(id SymbolID) (Symbol, bool) {
	idx := int(id) - 1
	if idx < 0 || idx >= len(r.symbols) {
		return Symbol{}, false
	}
	return r.symbols[idx], true
}

// SymbolByName resolves a product name to its ID.
func (r *Registry) SymbolByName(name string) (SymbolID, bool) {
	id, ok := r.symbolByName[name]
	return id, ok
}

// SymbolCount returns the number of registered products.
func (r *Registry) SymbolCount() int {
	return len(r.symbols)
}

// SymbolAt returns the symbol at a positional index.
func (r *Registry) SymbolAt(idx int) (Symbol, bool) {
	if idx < 0 || idx >= len(r.symbols) {
		return Symbol{}, false
	}
	return r.symbols[idx], true
}

// Name returns the product name for an ID, or a numeric placeholder.
func (r *Registry) Name(id SymbolID) string {
	if s, ok := r.Symbol(id); ok {
		return s.Name
	}
	return fmt.Sprintf("symbol-%d", id)
}
