// Package nls loads and queries the flat key/value localization file that sits
// next to a manifest (package.nls.json next to package.json).
package nls

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/nlsls/pkg/position"
	"gitlab.com/tozd/go/errors"
)

const DefaultFileName = "package.nls.json"

// KeyTokenPattern matches a quoted localization key in the raw file.
var KeyTokenPattern = regexp.MustCompile(`"[a-zA-Z0-9.\-]+"`)

var ErrParse = errors.Base("localization file is not a flat JSON object")

// Entry is one key of the localization file.
type Entry struct {
	Key string
	// Value is the string value, or the raw JSON text when the value is not a string
	Value string
	// IsString is false when the file holds something other than a string for this key
	IsString bool
}

// Mapping is a parsed localization file. It is built per request and never cached.
type Mapping map[string]Entry

// ParseMapping parses raw as a JSON object. Duplicate keys keep the last value.
func ParseMapping(raw []byte) (Mapping, error) {
	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, errors.Errorf("%w: %s", ErrParse, err.Error())
	}
	if values == nil {
		// the literal `null` decodes without error
		return nil, errors.Errorf("%w: top level value is null", ErrParse)
	}

	mapping := make(Mapping, len(values))
	for key, rawValue := range values {
		entry := Entry{Key: key}
		var str string
		if err := json.Unmarshal(rawValue, &str); err == nil {
			entry.Value = str
			entry.IsString = true
		} else {
			entry.Value = string(bytes.TrimSpace(rawValue))
		}
		mapping[key] = entry
	}
	return mapping, nil
}

// LookupExact returns the entry stored under key.
func (m Mapping) LookupExact(key string) (Entry, bool) {
	entry, ok := m[key]
	return entry, ok
}

// LookupPrefix returns every entry whose key starts with prefix, sorted by key.
// An empty prefix returns every entry.
func (m Mapping) LookupPrefix(prefix string) []Entry {
	matches := make([]Entry, 0)
	for key, entry := range m {
		if strings.HasPrefix(key, prefix) {
			matches = append(matches, entry)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Key < matches[j].Key
	})
	return matches
}

// LocateSiblingFile swaps the last path segment of manifestPath for fileName.
// It never touches the filesystem.
func LocateSiblingFile(manifestPath, fileName string) string {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return filepath.Join(filepath.Dir(manifestPath), fileName)
}

// Source opens localization files by path. A missing file must produce an
// error matching fs.ErrNotExist.
type Source interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// FsSource reads files straight from an afero filesystem.
type FsSource struct {
	Fs afero.Fs
}

func NewFsSource(fsys afero.Fs) *FsSource {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &FsSource{Fs: fsys}
}

func (me *FsSource) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := afero.ReadFile(me.Fs, path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// Status is the outcome of loading a localization file.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusReadError
	StatusParseError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not-found"
	case StatusReadError:
		return "read-error"
	case StatusParseError:
		return "parse-error"
	default:
		return "unknown"
	}
}

// LoadResult keeps "no file", "unreadable file" and "malformed JSON" apart so
// each one can get its own message.
type LoadResult struct {
	Status  Status
	Path    string
	Raw     string
	Mapping Mapping
	Err     error
}

func (r *LoadResult) OK() bool {
	return r.Status == StatusOK
}

// Load reads and parses the localization file at path. Every outcome is
// reported through the result; Load itself never fails.
func Load(ctx context.Context, src Source, path string) *LoadResult {
	logger := zerolog.Ctx(ctx).With().Str("nls_path", path).Logger()

	if err := ctx.Err(); err != nil {
		return &LoadResult{Status: StatusReadError, Path: path, Err: errors.Errorf("loading %s: %w", path, err)}
	}

	data, err := src.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug().Msg("no localization file")
			return &LoadResult{Status: StatusNotFound, Path: path, Err: err}
		}
		logger.Warn().Err(err).Msg("could not read localization file")
		return &LoadResult{Status: StatusReadError, Path: path, Err: err}
	}

	mapping, err := ParseMapping(data)
	if err != nil {
		logger.Warn().Err(err).Msg("could not parse localization file")
		return &LoadResult{Status: StatusParseError, Path: path, Raw: string(data), Err: err}
	}

	logger.Trace().Int("entries", len(mapping)).Msg("loaded localization file")

	return &LoadResult{Status: StatusOK, Path: path, Raw: string(data), Mapping: mapping}
}

// Span is the location of a key token inside the raw localization text.
type Span struct {
	// Offset is where the search for the quoted key landed
	Offset int
	// Token is the quoted key token around Offset
	Token position.RawPosition
	Range position.Range
}

// FindKeyOffset returns the byte offset of the first literal occurrence of the
// quoted key in raw.
func FindKeyOffset(raw, key string) (int, bool) {
	idx := strings.Index(raw, `"`+key+`"`)
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// WordRangeAroundOffset expands offset to the quoted key token enclosing it.
func WordRangeAroundOffset(raw string, offset int) (Span, bool) {
	tok, ok := position.WordRangeAtOffset(raw, offset, KeyTokenPattern)
	if !ok {
		return Span{}, false
	}
	return Span{
		Offset: offset,
		Token:  tok,
		Range:  tok.GetRange(raw),
	}, true
}

// FindKeySpan combines FindKeyOffset and WordRangeAroundOffset.
func FindKeySpan(raw, key string) (Span, bool) {
	offset, ok := FindKeyOffset(raw, key)
	if !ok {
		return Span{}, false
	}
	return WordRangeAroundOffset(raw, offset)
}

// Resolver ties a Source to the localization file name used next to manifests.
type Resolver struct {
	Source   Source
	FileName string
}

func NewResolver(src Source, fileName string) *Resolver {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return &Resolver{Source: src, FileName: fileName}
}

// SiblingOf returns the localization file path for a manifest.
func (me *Resolver) SiblingOf(manifestPath string) string {
	return LocateSiblingFile(manifestPath, me.FileName)
}

// NotFoundMessage is shown when there is no localization file next to a manifest.
func (me *Resolver) NotFoundMessage(path string) string {
	return fmt.Sprintf("No %s found at %s", me.FileName, path)
}

// UnreadableMessage is shown when the localization file cannot be read or parsed.
func (me *Resolver) UnreadableMessage(path string) string {
	return fmt.Sprintf("Could not read the %s file at %s", me.FileName, path)
}

// MissingKeyMessage is shown when a placeholder names a key the file does not have.
func (me *Resolver) MissingKeyMessage(key string) string {
	return fmt.Sprintf("The key %s was not found in the %s file", key, me.FileName)
}

// Resolve loads the localization file belonging to manifestPath.
func (me *Resolver) Resolve(ctx context.Context, manifestPath string) *LoadResult {
	return Load(ctx, me.Source, me.SiblingOf(manifestPath))
}
