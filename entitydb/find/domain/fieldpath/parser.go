package fieldpath

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/krew-solutions/ascetic-entitydb-go/entitydb/reflection"
)

const DefaultCacheSize = 256

var annotationPattern = regexp.MustCompile(`:(any|all|keys|values|length|count)\b`)

var annotationFlags = map[string]Flags{
	AnnotationAny:    Any,
	AnnotationAll:    All,
	AnnotationKeys:   Keys,
	AnnotationValues: Values,
	AnnotationLength: Length,
	AnnotationCount:  Count,
}

// Parse splits path into segments. Type names are resolved through resolver,
// which may be nil. Unknown field names are not an error here.
func Parse(path string, resolver reflection.TypeResolver) []Segment {
	var segments []Segment
	for _, component := range strings.Split(path, Separator) {
		if component == "" {
			continue
		}
		segments = append(segments, parseComponent(component, resolver))
	}
	return segments
}

func parseComponent(component string, resolver reflection.TypeResolver) Segment {
	var flags Flags
	for _, marker := range annotationPattern.FindAllString(component, -1) {
		flags |= annotationFlags[marker]
	}
	name := annotationPattern.ReplaceAllString(component, "")

	if _, err := strconv.Atoi(name); err == nil {
		flags |= Number
	} else if resolver != nil {
		if _, ok := resolver.ResolveTypeByName(name); ok {
			flags |= Typename
		}
	}
	return Segment{Name: name, Flags: flags}
}

type versioned interface {
	Version() uint64
}

type Option func(*Parser)

// WithCacheSize bounds the number of cached paths. Zero disables caching.
func WithCacheSize(size int) Option {
	return func(p *Parser) {
		p.cache = newLruCache(size)
	}
}

// Parser parses paths against a type resolver and remembers recent results.
//
// If the resolver exposes Version() uint64, a version change drops the cache,
// since a newly registered type may turn a field segment into a type filter.
// Parser is safe for concurrent use.
type Parser struct {
	resolver reflection.TypeResolver
	mu       sync.Mutex
	cache    *lruCache
	version  uint64
}

func NewParser(resolver reflection.TypeResolver, opts ...Option) *Parser {
	p := &Parser{
		resolver: resolver,
		cache:    newLruCache(DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.version = p.resolverVersion()
	return p
}

// Parse returns the segments of path. The returned slice is owned by the caller.
func (p *Parser) Parse(path string) []Segment {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v := p.resolverVersion(); v != p.version {
		p.cache.clear()
		p.version = v
	}
	if segments, ok := p.cache.get(path); ok {
		return slices.Clone(segments)
	}
	segments := Parse(path, p.resolver)
	p.cache.add(path, segments)
	return slices.Clone(segments)
}

// Cached reports the number of cached paths.
func (p *Parser) Cached() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cache.len()
}

func (p *Parser) resolverVersion() uint64 {
	if v, ok := p.resolver.(versioned); ok {
		return v.Version()
	}
	return 0
}
