package hcl

import "github.com/zclconf/go-cty/cty"

// fileRoot holds every top-level block a project file may contain. All
// blocks are optional.
type fileRoot struct {
	Project *projectBlock `hcl:"project,block"`
	Parser  *parserBlock  `hcl:"parser,block"`
	Runtime *runtimeBlock `hcl:"runtime,block"`
	Saves   *savesBlock   `hcl:"saves,block"`
	Server  *serverBlock  `hcl:"server,block"`
	Relay   *relayBlock   `hcl:"relay,block"`
}

type projectBlock struct {
	Name    string  `hcl:"name,label"`
	Title   string  `hcl:"title,optional"`
	Scripts string  `hcl:"scripts,optional"`
	Setup   *string `hcl:"setup,optional"`
}

type parserBlock struct {
	IndentSpaces    int  `hcl:"indent_spaces,optional"`
	CommentCommands bool `hcl:"comment_commands,optional"`
}

type runtimeBlock struct {
	LoopProtection      int       `hcl:"loop_protection,optional"`
	Duplication         string    `hcl:"duplication,optional"`
	CombineOrderMatters bool      `hcl:"combine_order_matters,optional"`
	Overrides           cty.Value `hcl:"overrides,optional"`
}

type savesBlock struct {
	Backend string `hcl:"backend,optional"`
	Path    string `hcl:"path,optional"`
}

type serverBlock struct {
	Port int `hcl:"port,optional"`
}

type relayBlock struct {
	URL       string `hcl:"url,optional"`
	Namespace string `hcl:"namespace,optional"`
	Event     string `hcl:"event,optional"`
	Input     string `hcl:"input,optional"`
}
