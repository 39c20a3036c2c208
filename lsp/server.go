// Package lsp serves the class graph of a classpath over the Language
// Server Protocol.
package lsp

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/classgraph/classpath"
	"github.com/dhamidi/classgraph/format"
	"github.com/dhamidi/classgraph/hierarchy"
	"github.com/dhamidi/classgraph/resolve"
)

const lsName = "classgraph"

const (
	// DescribeCommand takes a flat class name and returns its line encoding.
	DescribeCommand = "classgraph.describe"
	// HierarchyCommand takes a flat class name and returns its supertypes,
	// nearest first.
	HierarchyCommand = "classgraph.hierarchy"
)

// MaxSymbols caps the answer to one workspace/symbol request.
const MaxSymbols = 200

var log = commonlog.GetLogger("classgraph.lsp")

// Server answers requests from one Completer. The Completer is not safe
// for concurrent use, so every request holds mu while it touches symbols.
// After an internal consistency failure the Completer is replaced, so one
// corrupt class file fails only the requests that reach it.
type Server struct {
	mu        sync.Mutex
	path      *classpath.Path
	opts      []resolve.Option
	completer *resolve.Completer

	handler protocol.Handler
	server  *server.Server
	version string
}

func NewServer(path *classpath.Path, version string, opts ...resolve.Option) *Server {
	ls := &Server{
		path:      path,
		opts:      opts,
		completer: resolve.NewCompleter(path, opts...),
		version:   version,
	}

	ls.handler = protocol.Handler{
		Initialize:              ls.initialize,
		Initialized:             ls.initialized,
		Shutdown:                ls.shutdown,
		SetTrace:                ls.setTrace,
		WorkspaceSymbol:         ls.workspaceSymbol,
		WorkspaceExecuteCommand: ls.workspaceExecuteCommand,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

// resetFailedRun drops a Completer stopped by an internal error. The caller
// holds mu.
func (ls *Server) resetFailedRun() {
	if err := ls.completer.Err(); err != nil {
		log.Errorf("discarding run %s: %s", ls.completer.RunID(), err)
		ls.completer = resolve.NewCompleter(ls.path, ls.opts...)
	}
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{DescribeCommand, HierarchyCommand},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Infof("serving %d classpath entries, run %s", len(ls.path.Entries()), ls.completer.RunID())
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return ls.path.Close()
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// queryMatch treats queries with glob syntax as patterns and anything else
// as a substring of the flat name.
func queryMatch(query string) (glob.Glob, error) {
	if query == "" {
		return nil, nil
	}
	if strings.ContainsAny(query, "*?[{") {
		return classpath.CompileMatch(query)
	}
	return classpath.CompileMatch("**" + glob.QuoteMeta(query) + "**")
}

func (ls *Server) workspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	match, err := queryMatch(params.Query)
	if err != nil {
		return nil, err
	}
	names, err := ls.path.List(match)
	if err != nil {
		return nil, err
	}
	if len(names) > MaxSymbols {
		names = names[:MaxSymbols]
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.resetFailedRun()

	result := make([]protocol.SymbolInformation, 0, len(names))
	for _, name := range names {
		sym, err := ls.completer.Load(name)
		if err != nil {
			log.Debugf("skipping %s: %s", name, err)
			ls.resetFailedRun()
			continue
		}
		result = append(result, symbolInformation(sym))
	}
	return result, nil
}

func symbolInformation(sym *resolve.Symbol) protocol.SymbolInformation {
	kind := protocol.SymbolKindClass
	switch f := sym.Flags(); {
	case f.Has(resolve.Enum):
		kind = protocol.SymbolKindEnum
	case f.Has(resolve.Interface):
		kind = protocol.SymbolKindInterface
	}

	info := protocol.SymbolInformation{
		Name: sym.Name(),
		Kind: kind,
		Location: protocol.Location{
			URI: "classgraph:///" + sym.BinaryName() + ".class",
		},
	}
	if container := sym.Owner(); container != nil && container.FlatName() != "" {
		name := container.FlatName()
		info.ContainerName = &name
	}
	if sym.Flags().Has(resolve.Deprecated) {
		info.Tags = []protocol.SymbolTag{protocol.SymbolTagDeprecated}
	}
	return info
}

func (ls *Server) workspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	if len(params.Arguments) != 1 {
		return nil, fmt.Errorf("%s: expected one class name argument, got %d", params.Command, len(params.Arguments))
	}
	name, ok := params.Arguments[0].(string)
	if !ok {
		return nil, fmt.Errorf("%s: class name must be a string, got %T", params.Command, params.Arguments[0])
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.resetFailedRun()

	switch params.Command {
	case DescribeCommand:
		return ls.describe(name)
	case HierarchyCommand:
		return ls.ancestors(name)
	}
	return nil, fmt.Errorf("unknown command: %s", params.Command)
}

func (ls *Server) describe(name string) (string, error) {
	sym, err := ls.completer.Load(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := format.NewLineEncoder(&buf).Encode(sym); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (ls *Server) ancestors(name string) ([]string, error) {
	sym, err := ls.completer.Load(name)
	if err != nil {
		return nil, err
	}
	h, err := hierarchy.Build(sym)
	if err != nil {
		return nil, err
	}
	ancestors, err := h.Ancestors(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(ancestors))
	for i, a := range ancestors {
		out[i] = a.FlatName()
	}
	return out, ls.completer.Err()
}
