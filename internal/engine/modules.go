package engine

import (
	"fmt"
	"log"
	"path"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/parsedescribe/internal/diag"
)

// moduleLoader follows Rust `mod name;` items through the session Resolver.
// Loaded files are only checked for syntax errors; their items never appear
// in the outline because their ranges belong to another file.
type moduleLoader struct {
	parser   *tree_sitter.Parser
	resolver Resolver
	emitter  diag.Emitter
}

// load visits the mod items directly below items. dir is the directory that
// out-of-line modules declared there resolve against.
func (ml *moduleLoader) load(items *tree_sitter.Node, src []byte, dir string, depth int, rep *reporter) int {
	errs := 0
	for i := uint(0); i < items.ChildCount(); i++ {
		item := items.Child(i)
		if item == nil || item.Kind() != "mod_item" {
			continue
		}
		nameNode := item.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := nameNode.Utf8Text(src)

		if body := item.ChildByFieldName("body"); body != nil {
			errs += ml.load(body, src, path.Join(dir, name), depth, rep)
			continue
		}
		errs += ml.loadFile(item, name, dir, depth, rep)
	}
	return errs
}

func (ml *moduleLoader) loadFile(item *tree_sitter.Node, name, dir string, depth int, rep *reporter) int {
	if depth >= MaxModuleDepth {
		rep.error(item, fmt.Sprintf("module `%s` is nested more than %d files deep", name, MaxModuleDepth))
		return 1
	}

	candidates := []string{
		path.Join(dir, name+".rs"),
		path.Join(dir, name, PlaceholderModuleFile),
	}
	file := ""
	for _, c := range candidates {
		if ml.resolver.FileExists(c) {
			file = c
			break
		}
	}
	if file == "" {
		rep.error(item, fmt.Sprintf("file not found for module `%s`", name))
		ml.emitter.EmitCustom(
			fmt.Sprintf("help: to create the module `%s`, create file %q", name, candidates[0]),
			diag.LevelHelp,
		)
		return 1
	}

	content, err := ml.resolver.ReadFile(file)
	if err != nil {
		rep.error(item, fmt.Sprintf("couldn't read %s: %v", file, err))
		return 1
	}
	log.Printf("engine: module %s resolved to %s (%d bytes)", name, file, len(content))
	if content == "" {
		return 0
	}

	src := []byte(content)
	tree := ml.parser.Parse(src, nil)
	if tree == nil {
		ml.emitter.EmitCustom("tree-sitter returned no tree for "+file, diag.LevelCancelled)
		return 1
	}
	defer tree.Close()

	at := rep.spanOf(item)
	sub := &reporter{
		emitter: ml.emitter,
		src:     src,
		at:      at,
		prefix:  rep.prefix + fmt.Sprintf("in module `%s`: ", name),
		items:   rep.items,
	}
	errs := sub.check(tree.RootNode())
	return errs + ml.load(tree.RootNode(), src, path.Join(dir, name), depth+1, sub)
}
