package schema

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Registry maps semantic type tokens to types and schema names to registered
// record schemas. Entries are append-only: once registered they are never
// removed or mutated, so resolution may run concurrently with registration of
// new independent entries. A single mutex serves as the insertion guard.
type Registry struct {
	mu      sync.RWMutex
	aliases map[string]Type
	schemas map[string]*Schema
	logger  *zap.Logger
}

// NewRegistry builds a registry seeded with the primitive tokens and their
// common aliases. A nil logger defaults to zap.NewNop().
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		aliases: make(map[string]Type),
		schemas: make(map[string]*Schema),
		logger:  logger,
	}
	seed := map[string]Type{
		"bool":    Bool(),
		"boolean": Bool(),
		"int":     Int(),
		"integer": Int(),
		"float":   Float(),
		"number":  Float(),
		"string":  String(),
		"str":     String(),
	}
	for tok, t := range seed {
		r.aliases[tok] = t
	}
	return r
}

// RegisterAlias registers a new token for a type. Registering a token twice
// fails with ErrAlreadyRegistered.
func (r *Registry) RegisterAlias(token string, t Type) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("alias token must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.aliases[token]; exists {
		return fmt.Errorf("alias %q: %w", token, ErrAlreadyRegistered)
	}
	r.aliases[token] = t
	r.logger.Debug("registered type alias", zap.String("token", token), zap.String("kind", string(t.Kind)))
	return nil
}

// RegisterSchema registers a record schema under its name so that the name
// becomes resolvable as a type token and through Ref types. Registering the
// same name twice fails with ErrAlreadyRegistered.
func (r *Registry) RegisterSchema(s *Schema) error {
	if s == nil || s.Name() == "" {
		return fmt.Errorf("schema must be non-nil and named")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemas[s.Name()]; exists {
		return fmt.Errorf("schema %q: %w", s.Name(), ErrAlreadyRegistered)
	}
	r.schemas[s.Name()] = s
	r.logger.Debug("registered schema", zap.String("name", s.Name()), zap.Int("fields", s.Len()))
	return nil
}

// Schema returns a registered schema by name.
func (r *Registry) Schema(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// Resolve parses a type token into a semantic type. Composite tokens nest:
// optional<list<string>> is valid. A bare token resolves first against the
// alias table, then against registered schema names. Unresolvable tokens fail
// with ErrUnknownType.
func (r *Registry) Resolve(token string) (Type, error) {
	token = strings.TrimSpace(token)
	switch {
	case strings.HasPrefix(token, "optional<") && strings.HasSuffix(token, ">"):
		elem, err := r.Resolve(token[len("optional<") : len(token)-1])
		if err != nil {
			return Type{}, err
		}
		return Optional(elem), nil
	case strings.HasPrefix(token, "list<") && strings.HasSuffix(token, ">"):
		elem, err := r.Resolve(token[len("list<") : len(token)-1])
		if err != nil {
			return Type{}, err
		}
		return List(elem), nil
	case strings.HasPrefix(token, "literal<") && strings.HasSuffix(token, ">"):
		return parseLiteralToken(token[len("literal<") : len(token)-1])
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.aliases[token]; ok {
		return t, nil
	}
	if s, ok := r.schemas[token]; ok {
		return Record(s), nil
	}
	return Type{}, fmt.Errorf("token %q: %w", token, ErrUnknownType)
}

// parseLiteralToken parses the inner part of a literal<...> token. Values are
// separated by '|'. A quoted value is always a string; otherwise bool and
// numeric literals are recognized, and anything else is taken as a bare
// string. Literal values must not themselves contain '|'.
func parseLiteralToken(inner string) (Type, error) {
	if strings.TrimSpace(inner) == "" {
		return Type{}, fmt.Errorf("literal<> with no values: %w", ErrUnknownType)
	}
	parts := strings.Split(inner, "|")
	values := make([]any, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch {
		case len(p) >= 2 && p[0] == '"':
			s, err := strconv.Unquote(p)
			if err != nil {
				return Type{}, fmt.Errorf("bad literal value %s: %w", p, ErrUnknownType)
			}
			values = append(values, s)
		case p == "true":
			values = append(values, true)
		case p == "false":
			values = append(values, false)
		default:
			if n, err := strconv.ParseInt(p, 10, 64); err == nil {
				values = append(values, n)
			} else if f, err := strconv.ParseFloat(p, 64); err == nil {
				values = append(values, f)
			} else {
				values = append(values, p)
			}
		}
	}
	return Literal(values...), nil
}
