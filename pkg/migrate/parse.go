package migrate

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sndtools/snd/pkg/debuglog"
	"github.com/sndtools/snd/pkg/legacy"
	"github.com/sndtools/snd/pkg/macro"
)

// Legacy field names.
const (
	fieldRootFolder     = "RootFolder"
	fieldName           = "Name"
	fieldChildren       = "Children"
	fieldContents       = "Contents"
	fieldLanguage       = "Language"
	fieldCraftingLoop   = "CraftingLoop"
	fieldCraftLoopCount = "CraftLoopCount"
	fieldPostProcess    = "isPostProcess"
)

// rootPath is the folder path of everything directly under the root folder,
// whatever the root itself is called.
const rootPath = "/"

// luaLanguage is the legacy language code for Lua macros.
const luaLanguage = "1"

type ParseOptions struct {
	Logger logrus.FieldLogger
	// Now stamps LastModified on every migrated macro.
	Now func() time.Time
}

type nodeKind int

const (
	nodeSkip nodeKind = iota
	nodeMacro
	nodeFolder
)

// nodeResult is the outcome of inspecting a single child node.
type nodeResult struct {
	kind   nodeKind
	macro  *macro.Macro
	folder legacy.Value
	path   string
}

type parser struct {
	log     logrus.FieldLogger
	now     time.Time
	results *ResultSet
}

// Parse converts a legacy document into a result set. Problems with
// individual nodes are logged and skipped; an error is returned only when the
// document as a whole cannot be read.
func Parse(doc legacy.Value, opts ParseOptions) (rs *ResultSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			rs = nil
			err = errors.Errorf("unexpected failure: %v", r)
		}
	}()

	p := &parser{
		log:     opts.Logger,
		results: NewResultSet(),
	}
	if p.log == nil {
		p.log = logrus.StandardLogger()
	}
	if opts.Now != nil {
		p.now = opts.Now()
	} else {
		p.now = time.Now()
	}

	root, err := doc.Lookup(fieldRootFolder)
	if err != nil {
		return nil, errors.Wrap(err, "invalid legacy document")
	}

	if root.IsNull() {
		p.log.Warn("No macros found in old config")
	} else {
		name := p.rootName(root)
		if err := p.traverse(root, rootPath, name); err != nil {
			p.log.WithError(err).Error("Failed to traverse folder structure")
		}
	}

	p.log.WithField("macros", p.results.Len()).Info("Migration preview summary")
	return p.results, nil
}

func (p *parser) rootName(root legacy.Value) string {
	if root.Kind() != legacy.Object {
		p.log.WithField("kind", root.Kind()).Error("Error determining root folder name")
		return macro.RootFolderName
	}
	if !root.Present(fieldName) {
		p.log.Warn("Root folder has no name, using default")
		return macro.RootFolderName
	}
	name, err := root.TextOr(fieldName, macro.RootFolderName)
	if err != nil {
		p.log.WithError(err).Error("Error determining root folder name")
		return macro.RootFolderName
	}
	p.log.WithField("name", name).Info("Root folder name")
	return name
}

// traverse walks the children of folder depth first. label names the folder
// in log output.
func (p *parser) traverse(folder legacy.Value, path, label string) error {
	log := p.log.WithField("path", path)
	log.WithField("folder", label).Debug("Traversing folder")

	children, err := folder.Lookup(fieldChildren)
	if err != nil {
		return err
	}
	if children.IsNull() {
		log.Warn("No Children property found in folder")
		return nil
	}
	nodes, err := children.Items()
	if err != nil {
		return errors.Wrap(err, fieldChildren)
	}

	for i, node := range nodes {
		res, err := p.inspect(node, path)
		if err != nil {
			log.WithError(err).WithField("index", i).Error("Error processing node in folder")
			debuglog.Dump("offending node", node)
			continue
		}

		switch res.kind {
		case nodeMacro:
			log.WithField("macro", res.macro.Name).Info("Adding macro")
			p.results.Put(res.macro)
		case nodeFolder:
			if err := p.traverse(res.folder, res.path, res.path); err != nil {
				p.log.WithError(err).WithField("path", res.path).Error("Error traversing folder")
			}
		}
	}

	return nil
}

// inspect classifies one child node. A non-null Contents makes a node a
// macro regardless of anything else it carries.
func (p *parser) inspect(node legacy.Value, path string) (nodeResult, error) {
	if node.Kind() != legacy.Object {
		return nodeResult{}, errors.Errorf("expected object node, got %s", node.Kind())
	}

	if node.Present(fieldContents) {
		m, err := p.buildMacro(node, path)
		if err != nil {
			return nodeResult{}, err
		}
		return nodeResult{kind: nodeMacro, macro: m}, nil
	}

	if node.Present(fieldName) {
		name, err := node.TextOr(fieldName, "")
		if err != nil {
			return nodeResult{}, err
		}
		return nodeResult{kind: nodeFolder, folder: node, path: joinFolderPath(path, name)}, nil
	}

	return nodeResult{kind: nodeSkip}, nil
}

func (p *parser) buildMacro(node legacy.Value, path string) (*macro.Macro, error) {
	name, err := node.TextOr(fieldName, macro.UnknownName)
	if err != nil {
		return nil, err
	}

	contents, _ := node.Field(fieldContents)

	macroType := macro.Native
	if lang, ok := node.Field(fieldLanguage); ok && languageCode(lang) == luaLanguage {
		macroType = macro.Lua
	}

	craftingLoop, err := node.BoolOr(fieldCraftingLoop, false)
	if err != nil {
		return nil, err
	}

	var loopCount int64
	if craftingLoop {
		loopCount, err = node.IntOr(fieldCraftLoopCount, 0)
		if err != nil {
			return nil, err
		}
	}

	postProcess, err := node.BoolOr(fieldPostProcess, false)
	if err != nil {
		return nil, err
	}

	triggers := []macro.TriggerEvent{}
	if postProcess {
		triggers = append(triggers, macro.OnAutoRetainerCharacterPostProcess)
	}

	return &macro.Macro{
		Name:       name,
		Type:       macroType,
		Content:    contents.String(),
		FolderPath: path,
		Metadata: macro.Metadata{
			LastModified:   p.now,
			CraftingLoop:   craftingLoop,
			CraftLoopCount: int(loopCount),
			TriggerEvents:  triggers,
		},
	}, nil
}

// languageCode renders a Language value for comparison. Numbers are
// normalised so 1, 1.0 and 1e0 all read as "1".
func languageCode(v legacy.Value) string {
	switch v.Kind() {
	case legacy.Null:
		return ""
	case legacy.Number:
		if f, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return v.String()
}

// joinFolderPath appends name to parent using forward slashes. Backslashes
// are treated as separators and empty segments are dropped.
func joinFolderPath(parent, name string) string {
	joined := strings.ReplaceAll(parent+"/"+name, `\`, "/")

	segments := make([]string, 0)
	for _, s := range strings.Split(joined, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return "/" + strings.Join(segments, "/")
}
