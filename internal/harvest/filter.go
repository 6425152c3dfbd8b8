package harvest

import (
	"fmt"
	"regexp"
	"strings"
)

// mandatoryBlacklist holds the bundler bootstrap and the loader runtimes. They are
// prepended to every blacklist and cannot be overridden by a whitelist.
var mandatoryBlacklist = []string{
	"webpack/bootstrap",
	"css-loader/lib/css-base.js",
	"style-loader/lib/addStyles.js",
}

// FilterConfigError reports a filter entry that is not a valid pattern.
type FilterConfigError struct {
	Entry string
	Err   error
}

func (e *FilterConfigError) Error() string {
	return fmt.Sprintf("invalid filter pattern %q: %v", e.Entry, e.Err)
}

func (e *FilterConfigError) Unwrap() error {
	return e.Err
}

// CompilePattern turns a filter entry into a regular expression. Entries written
// as /expr/ are used as-is; anything else matches as a literal substring.
func CompilePattern(entry string) (*regexp.Regexp, error) {
	expr := regexp.QuoteMeta(entry)
	if len(entry) > 2 && strings.HasPrefix(entry, "/") && strings.HasSuffix(entry, "/") {
		expr = entry[1 : len(entry)-1]
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &FilterConfigError{Entry: entry, Err: err}
	}
	return re, nil
}

func compileAll(entries []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(entries))
	for _, entry := range entries {
		re, err := CompilePattern(entry)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, re)
	}
	return patterns, nil
}

// FilterSet decides which modules contribute usage content.
type FilterSet struct {
	Whitelist []*regexp.Regexp // empty matches everything
	Blacklist []*regexp.Regexp
}

// NewFilterSet compiles the user entries. The mandatory blacklist is always
// placed ahead of the user blacklist.
func NewFilterSet(whitelist, blacklist []string) (*FilterSet, error) {
	wl, err := compileAll(whitelist)
	if err != nil {
		return nil, err
	}
	bl, err := compileAll(append(append([]string{}, mandatoryBlacklist...), blacklist...))
	if err != nil {
		return nil, err
	}
	return &FilterSet{Whitelist: wl, Blacklist: bl}, nil
}

// Allows reports whether a module with the given identifier passes the filters.
func (f *FilterSet) Allows(identifier string) bool {
	for _, re := range f.Blacklist {
		if re.MatchString(identifier) {
			return false
		}
	}
	if len(f.Whitelist) == 0 {
		return true
	}
	for _, re := range f.Whitelist {
		if re.MatchString(identifier) {
			return true
		}
	}
	return false
}
