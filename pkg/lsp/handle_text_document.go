package lsp

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/nlsls/pkg/completion"
	"github.com/walteh/nlsls/pkg/definition"
	"github.com/walteh/nlsls/pkg/diagnostic"
	"github.com/walteh/nlsls/pkg/hover"
	"github.com/walteh/nlsls/pkg/lsp/protocol"
	"github.com/walteh/nlsls/pkg/position"
	"gitlab.com/tozd/go/errors"
)

func (me *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("uri", string(params.TextDocument.URI)).Msg("document opened")

	doc := &Document{
		URI:        params.TextDocument.URI,
		Path:       params.TextDocument.URI.Path(),
		LanguageID: params.TextDocument.LanguageID,
		Version:    params.TextDocument.Version,
		Content:    params.TextDocument.Text,
	}

	me.documents.Store(doc)

	if me.isManifest(doc.Path) {
		if w := me.fileWatcher(); w != nil {
			if err := w.Add(filepath.Dir(doc.Path)); err != nil {
				logger.Debug().Err(err).Msg("not watching manifest directory")
			}
		}
	}

	return me.documentChanged(ctx, doc)
}

func (me *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("uri", string(params.TextDocument.URI)).Msg("document changed")

	if len(params.ContentChanges) == 0 {
		return nil
	}

	prev, ok := me.documents.Get(params.TextDocument.URI)
	if !ok {
		return errors.Errorf("document not found: %s", params.TextDocument.URI)
	}

	// documents are shared with in flight requests, so edit a copy
	doc := *prev
	doc.Version = params.TextDocument.Version
	for _, change := range params.ContentChanges {
		if change.Range == nil {
			doc.Content = change.Text
		} else {
			doc.Content = replaceContentFromRange(ctx, doc.Content, change.Range, change.Text)
		}
	}

	me.documents.Store(&doc)

	return me.documentChanged(ctx, &doc)
}

func replaceContentFromRange(ctx context.Context, content string, rangez *protocol.Range, text string) string {
	startPos := position.NewRawPositionFromLineAndColumn(int(rangez.Start.Line), int(rangez.Start.Character), "", content)
	endPos := position.NewRawPositionFromLineAndColumn(int(rangez.End.Line), int(rangez.End.Character), "", content)
	if endPos.Offset < startPos.Offset {
		startPos, endPos = endPos, startPos
	}
	zerolog.Ctx(ctx).Trace().Msgf(`replacing content from %s to %s with %q`, startPos.ID(), endPos.ID(), text)
	return content[:startPos.Offset] + text + content[endPos.Offset:]
}

func (me *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("uri", string(params.TextDocument.URI)).Msg("document closed")

	path := params.TextDocument.URI.Path()
	me.documents.Delete(params.TextDocument.URI)

	if me.isManifest(path) {
		if w := me.fileWatcher(); w != nil {
			if err := w.Remove(filepath.Dir(path)); err != nil {
				logger.Debug().Err(err).Msg("unwatching manifest directory")
			}
		}
		// clear what was published for the buffer
		return me.publish(ctx, params.TextDocument.URI, nil, []protocol.Diagnostic{})
	}

	if me.isLocalizationFile(path) {
		// manifests fall back to the file on disk
		me.refreshSiblings(ctx, path)
	}

	return nil
}

func (me *Server) DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("uri", string(params.TextDocument.URI)).Msg("document saved")

	prev, ok := me.documents.Get(params.TextDocument.URI)
	if !ok {
		return errors.Errorf("document not found: %s", params.TextDocument.URI)
	}

	doc := prev
	if params.Text != nil {
		updated := *prev
		updated.Content = *params.Text
		me.documents.Store(&updated)
		doc = &updated
	}

	return me.documentChanged(ctx, doc)
}

// documentChanged republishes diagnostics for the document, or for the
// manifests next to it when it is a localization file.
func (me *Server) documentChanged(ctx context.Context, doc *Document) error {
	if me.isManifest(doc.Path) {
		return me.publishDiagnostics(ctx, doc)
	}
	if me.isLocalizationFile(doc.Path) {
		me.refreshSiblings(ctx, doc.Path)
	}
	return nil
}

// refreshSiblings republishes diagnostics for every open manifest that reads
// the localization file at nlsPath.
func (me *Server) refreshSiblings(ctx context.Context, nlsPath string) {
	for _, doc := range me.documents.InDir(filepath.Dir(nlsPath), me.cfg.ManifestName()) {
		if !me.isManifest(doc.Path) {
			continue
		}
		if err := me.publishDiagnostics(ctx, doc); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("manifest", doc.Path).Msg("refreshing diagnostics")
		}
	}
}

// refreshAll republishes diagnostics for every open manifest.
func (me *Server) refreshAll(ctx context.Context) {
	for _, doc := range me.documents.All() {
		if !me.isManifest(doc.Path) {
			continue
		}
		if err := me.publishDiagnostics(ctx, doc); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("manifest", doc.Path).Msg("refreshing diagnostics")
		}
	}
}

func (me *Server) onLocalizationChanged(ctx context.Context, path string) {
	if _, open := me.documents.GetPath(path); open {
		// the editor buffer is authoritative while it is open
		return
	}
	me.refreshSiblings(ctx, path)
}

func (me *Server) DidChangeWatchedFiles(ctx context.Context, params *protocol.DidChangeWatchedFilesParams) error {
	for _, change := range params.Changes {
		path := change.URI.Path()
		if !me.isLocalizationFile(path) {
			continue
		}
		zerolog.Ctx(ctx).Debug().Str("path", path).Uint32("type", uint32(change.Type)).Msg("localization file changed")
		me.onLocalizationChanged(ctx, path)
	}
	return nil
}

func (me *Server) identifyDiagnosticsForFile(ctx context.Context, doc *Document) ([]protocol.Diagnostic, error) {
	diagnostics, err := diagnostic.Generate(ctx, me.resolver, doc.Manifest())
	if err != nil {
		return nil, errors.Errorf("generating diagnostics: %w", err)
	}

	result := make([]protocol.Diagnostic, len(diagnostics))
	for i, d := range diagnostics {
		result[i] = protocol.Diagnostic{
			Range:    toProtocolRange(d.Range),
			Severity: toProtocolSeverity(d.Severity),
			Code:     "missing-key",
			Source:   ServerName,
			Message:  d.Message,
		}
	}

	return result, nil
}

func toProtocolSeverity(s diagnostic.DiagnosticSeverity) protocol.DiagnosticSeverity {
	switch s {
	case diagnostic.Error:
		return protocol.SeverityError
	case diagnostic.Info:
		return protocol.SeverityInformation
	case diagnostic.Hint:
		return protocol.SeverityHint
	default:
		return protocol.SeverityWarning
	}
}

func (me *Server) publishDiagnostics(ctx context.Context, doc *Document) error {
	if !me.cfg.DiagnosticsEnabled() {
		return nil
	}

	diagnostics, err := me.identifyDiagnosticsForFile(ctx, doc)
	if err != nil {
		return errors.Errorf("identifying diagnostics: %w", err)
	}

	version := doc.Version
	return me.publish(ctx, doc.URI, &version, diagnostics)
}

func (me *Server) publish(ctx context.Context, uri protocol.DocumentURI, version *int32, diagnostics []protocol.Diagnostic) error {
	if !me.cfg.DiagnosticsEnabled() {
		return nil
	}

	client := me.client()
	if client == nil {
		zerolog.Ctx(ctx).Warn().Msg("no callback client, skipping publish diagnostics")
		return nil
	}

	params := &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     version,
		Diagnostics: protocol.NonNilSlice(diagnostics),
	}

	zerolog.Ctx(ctx).Debug().Str("uri", string(uri)).Int("count", len(diagnostics)).Msg("publishing diagnostics")

	if err := client.PublishDiagnostics(ctx, params); err != nil {
		return errors.Errorf("publishing diagnostics: %w", err)
	}
	return nil
}

// manifestAt loads the document a position request points at. ok is false
// when the document is not a manifest the server answers for.
func (me *Server) manifestAt(ctx context.Context, params protocol.TextDocumentPositionParams) (*Document, int, bool, error) {
	if err := me.checkReady(); err != nil {
		return nil, 0, false, err
	}

	if err := ctx.Err(); err != nil {
		return nil, 0, false, requestError(err)
	}

	doc, err := me.documents.Load(params.TextDocument.URI)
	if err != nil {
		// neither open nor on disk, nothing to answer
		if errors.Is(err, fs.ErrNotExist) {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("document not found")
		} else {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("loading document")
		}
		return nil, 0, false, nil
	}

	if !me.isManifest(doc.Path) {
		zerolog.Ctx(ctx).Debug().Str("path", doc.Path).Msg("not a manifest")
		return doc, 0, false, nil
	}

	return doc, position.OffsetAt(doc.Content, fromProtocolPosition(params.Position)), true, nil
}

func (me *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc, offset, ok, err := me.manifestAt(ctx, params.TextDocumentPositionParams)
	if err != nil || !ok {
		return nil, err
	}

	info, err := hover.BuildHover(ctx, me.resolver, doc.Manifest(), offset)
	if err != nil {
		return nil, requestError(errors.Errorf("building hover: %w", err))
	}
	if info == nil {
		return nil, nil
	}

	rng := toProtocolRange(info.Range)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.PlainText,
			Value: info.Content,
		},
		Range: &rng,
	}, nil
}

func (me *Server) Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	list := &protocol.CompletionList{Items: []protocol.CompletionItem{}}

	doc, offset, ok, err := me.manifestAt(ctx, params.TextDocumentPositionParams)
	if err != nil {
		return nil, err
	}
	if !ok {
		return list, nil
	}

	items, err := completion.GetCompletions(ctx, me.resolver, doc.Manifest(), offset)
	if err != nil {
		return nil, requestError(errors.Errorf("getting completions: %w", err))
	}

	for _, item := range items {
		list.Items = append(list.Items, protocol.CompletionItem{
			Label:      item.Label,
			Kind:       protocol.ValueCompletion,
			Detail:     item.Detail,
			SortText:   item.Key,
			FilterText: item.Label,
			TextEdit: &protocol.TextEdit{
				Range:   toProtocolRange(item.Edit.Range),
				NewText: item.Edit.NewText,
			},
		})
	}

	return list, nil
}

// ResolveCompletionItem returns the item unchanged; every field is filled in
// by Completion already.
func (me *Server) ResolveCompletionItem(ctx context.Context, params *protocol.CompletionItem) (*protocol.CompletionItem, error) {
	return params, nil
}

func (me *Server) Definition(ctx context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error) {
	doc, offset, ok, err := me.manifestAt(ctx, params.TextDocumentPositionParams)
	if err != nil || !ok {
		return nil, err
	}

	loc, err := definition.GetDefinition(ctx, me.resolver, doc.Manifest(), offset)
	if err != nil {
		return nil, requestError(errors.Errorf("getting definition: %w", err))
	}
	if loc == nil {
		return nil, nil
	}

	return []protocol.Location{
		{
			URI:   protocol.URIFromPath(loc.Path),
			Range: toProtocolRange(loc.Range),
		},
	}, nil
}

// requestError turns a cancelled request into the LSP cancellation error,
// which wrapping would otherwise hide from the transport.
func requestError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return protocol.RequestCancelledError
	}
	return err
}
